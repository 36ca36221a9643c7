package http1

import (
    "bufio"
    "errors"
    "io"
    "strconv"
    "strings"
)

var (
    ErrMalformedRequestLine        = errors.New("http1: malformed request line")
    ErrMalformedHeader             = errors.New("http1: malformed header")
    ErrInvalidContentLength        = errors.New("http1: invalid content length")
    ErrIncompleteBody              = errors.New("http1: incomplete body")
    ErrUnsupportedTransferEncoding = errors.New("http1: unsupported transfer encoding")
    ErrHeaderTooLarge              = errors.New("http1: header too large")
    ErrBodyTooLarge                = errors.New("http1: body too large")
)

// ParsedRequest is a minimal representation parsed from the wire.
// Body holds the full Content-Length bytes; requests without a
// Content-Length header carry an empty body.
type ParsedRequest struct {
    Method        string
    RequestURI    string
    Proto         string
    ProtoMajor    int
    ProtoMinor    int
    Header        map[string][]string
    ContentLength int64
    Body          []byte
}

type Reader struct {
    BR                  *bufio.Reader
    MaxHeaderBytes      int   // per line
    MaxTotalHeaderBytes int   // all header lines combined
    MaxBodyBytes        int64 // 0 means no cap
}

// ReadRequest reads one request from the stream. io.EOF before the
// first byte is a clean end of stream, not an error.
func (r *Reader) ReadRequest() (*ParsedRequest, error) {
    line, err := r.readLine()
    if err != nil {
        if err == io.ErrUnexpectedEOF {
            return nil, ErrMalformedRequestLine
        }
        return nil, err
    }
    parts := strings.Split(line, " ")
    if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
        return nil, ErrMalformedRequestLine
    }
    method, uri, proto := parts[0], parts[1], parts[2]
    var major, minor int
    switch proto {
    case "HTTP/1.0":
        major, minor = 1, 0
    case "HTTP/1.1":
        major, minor = 1, 1
    default:
        return nil, ErrMalformedRequestLine
    }
    if !strings.HasPrefix(uri, "/") {
        return nil, ErrMalformedRequestLine
    }
    hdr, err := r.readHeaders()
    if err != nil {
        return nil, err
    }
    if _, ok := hdr[canonicalHeaderKey("Transfer-Encoding")]; ok {
        return nil, ErrUnsupportedTransferEncoding
    }
    cl, err := contentLength(hdr)
    if err != nil {
        return nil, err
    }
    if r.MaxBodyBytes > 0 && cl > r.MaxBodyBytes {
        return nil, ErrBodyTooLarge
    }
    var body []byte
    if cl > 0 {
        body = make([]byte, cl)
        if _, err := io.ReadFull(r.BR, body); err != nil {
            if err == io.EOF || err == io.ErrUnexpectedEOF {
                return nil, ErrIncompleteBody
            }
            return nil, err
        }
    }
    return &ParsedRequest{
        Method:        method,
        RequestURI:    uri,
        Proto:         proto,
        ProtoMajor:    major,
        ProtoMinor:    minor,
        Header:        hdr,
        ContentLength: cl,
        Body:          body,
    }, nil
}

func (r *Reader) readHeaders() (map[string][]string, error) {
    h := make(map[string][]string)
    total := 0
    for {
        line, err := r.readLine()
        if err != nil {
            if err == io.EOF || err == io.ErrUnexpectedEOF {
                return nil, ErrMalformedHeader
            }
            return nil, err
        }
        if line == "" {
            break
        }
        total += len(line) + 2
        if r.MaxTotalHeaderBytes > 0 && total > r.MaxTotalHeaderBytes {
            return nil, ErrHeaderTooLarge
        }
        i := strings.IndexByte(line, ':')
        if i <= 0 {
            return nil, ErrMalformedHeader
        }
        k := strings.TrimSpace(line[:i])
        if !isToken(k) {
            return nil, ErrMalformedHeader
        }
        v := strings.TrimSpace(line[i+1:])
        addHeader(h, k, v)
    }
    return h, nil
}

// readLine strips the trailing CRLF (or bare LF). EOF mid-line is
// reported as io.ErrUnexpectedEOF so callers can tell it apart from a
// clean close before any byte.
func (r *Reader) readLine() (string, error) {
    var sb strings.Builder
    for {
        b, err := r.BR.ReadByte()
        if err != nil {
            if err == io.EOF && sb.Len() > 0 {
                return "", io.ErrUnexpectedEOF
            }
            return "", err
        }
        if b == '\n' {
            break
        }
        if b != '\r' {
            sb.WriteByte(b)
        }
        if r.MaxHeaderBytes > 0 && sb.Len() > r.MaxHeaderBytes {
            return "", ErrHeaderTooLarge
        }
    }
    return sb.String(), nil
}

// contentLength validates the Content-Length header. Duplicates must
// agree; the value must be a plain non-negative decimal.
func contentLength(h map[string][]string) (int64, error) {
    vv, ok := h[canonicalHeaderKey("Content-Length")]
    if !ok || len(vv) == 0 {
        return 0, nil
    }
    first := strings.TrimSpace(vv[0])
    for _, v := range vv[1:] {
        if strings.TrimSpace(v) != first {
            return 0, ErrInvalidContentLength
        }
    }
    if first == "" || !isDigits(first) {
        return 0, ErrInvalidContentLength
    }
    n, err := strconv.ParseInt(first, 10, 64)
    if err != nil || n < 0 {
        return 0, ErrInvalidContentLength
    }
    return n, nil
}

func isDigits(s string) bool {
    for i := 0; i < len(s); i++ {
        if s[i] < '0' || s[i] > '9' {
            return false
        }
    }
    return true
}

// isToken reports whether s is a valid RFC 7230 header field name.
func isToken(s string) bool {
    if s == "" {
        return false
    }
    for i := 0; i < len(s); i++ {
        c := s[i]
        if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
            continue
        }
        switch c {
        case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
            continue
        default:
            return false
        }
    }
    return true
}

func addHeader(h map[string][]string, k, v string) {
    hk := canonicalHeaderKey(k)
    h[hk] = append(h[hk], v)
}

// Very small canonicalizer to avoid importing textproto here.
func canonicalHeaderKey(s string) string {
    b := []byte(strings.ToLower(s))
    upper := true
    for i, c := range b {
        if c >= 'a' && c <= 'z' {
            if upper {
                b[i] = byte(c - 'a' + 'A')
            }
            upper = false
            continue
        }
        upper = c == '-'
    }
    return string(b)
}
