package httpd

import (
    "errors"

    "github.com/joshmaker/simplehttp/httpd/internal/http1"
)

var (
    ErrDuplicateRoute = errors.New("httpd: duplicate route")
    ErrServerClosed   = errors.New("httpd: server closed")

    // Parse errors, surfaced by the wire codec. All of them are
    // connection-fatal: after a framing failure the stream boundary is
    // untrustworthy, so the connection closes without a response.
    ErrMalformedRequestLine        = http1.ErrMalformedRequestLine
    ErrMalformedHeader             = http1.ErrMalformedHeader
    ErrInvalidContentLength        = http1.ErrInvalidContentLength
    ErrIncompleteBody              = http1.ErrIncompleteBody
    ErrUnsupportedTransferEncoding = http1.ErrUnsupportedTransferEncoding
    ErrHeaderTooLarge              = http1.ErrHeaderTooLarge
    ErrBodyTooLarge                = http1.ErrBodyTooLarge
)
