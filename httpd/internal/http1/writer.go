package http1

import (
	"bufio"
	"fmt"
	"strings"
)

// Field is one response header line. Serialization preserves the
// order in which fields were added.
type Field struct {
	Name  string
	Value string
}

// WriteResponse serializes a response: status line, fields in order,
// blank line, body verbatim. When no Content-Length field is present
// one is appended with the exact body length, so receivers can always
// frame the body without relying on connection close. The caller
// flushes; a write error means the connection must be closed, never
// retried.
func WriteResponse(bw *bufio.Writer, status int, reason string, fields []Field, body []byte) error {
	if reason == "" {
		reason = StatusText(status)
	}
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, reason); err != nil {
		return err
	}
	hasCL := false
	for _, f := range fields {
		if !isToken(f.Name) {
			continue
		}
		if strings.EqualFold(f.Name, "Content-Length") {
			hasCL = true
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", f.Name, sanitizeHeaderValue(f.Value)); err != nil {
			return err
		}
	}
	if !hasCL {
		if _, err := fmt.Fprintf(bw, "Content-Length: %d\r\n", len(body)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(bw, "\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// StatusText returns the reason phrase for common status codes, or ""
// when the code is unknown.
func StatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 413:
		return "Content Too Large"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	default:
		return ""
	}
}

// sanitizeHeaderValue removes CR/LF and control chars except HTAB.
func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
