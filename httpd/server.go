package httpd

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "net"
    "strconv"
    "strings"
    "sync"
    "sync/atomic"
    "time"

    "github.com/joshmaker/simplehttp/httpd/internal/http1"
    "github.com/joshmaker/simplehttp/internal/obs"
)

// Server owns one listener, the handler (usually a Router), and the
// lifecycle state. Multiple independent Servers can run in the same
// process.
//
// Timeouts: IdleTimeout bounds the wait for the first byte of a
// request on a (possibly kept-alive) connection; ReadHeaderTimeout
// bounds reading one request once bytes start arriving; WriteTimeout
// bounds writing one response. Zero means no bound.
type Server struct {
    Addr    string
    Handler Handler

    ReadHeaderTimeout time.Duration
    WriteTimeout      time.Duration
    IdleTimeout       time.Duration

    MaxHeaderBytes      int
    MaxTotalHeaderBytes int
    MaxBodyBytes        int64

    Logger obs.Logger
    Meter  obs.Meter

    mu         sync.Mutex
    ln         net.Listener
    conns      map[net.Conn]bool // true while idle between requests
    inShutdown atomic.Bool
}

// ListenAndServe binds Addr (":8080" when empty) and serves until the
// listener fails or Shutdown is called. A port already in use or a
// permission failure surfaces as the wrapped bind error.
func (s *Server) ListenAndServe() error {
    addr := s.Addr
    if addr == "" {
        addr = ":8080"
    }
    ln, err := net.Listen("tcp", addr)
    if err != nil {
        return fmt.Errorf("httpd: bind %s: %w", addr, err)
    }
    return s.Serve(ln)
}

// Serve accepts connections on l, spawning one goroutine per
// connection. It returns ErrServerClosed after Shutdown or Close.
func (s *Server) Serve(l net.Listener) error {
    if s.shuttingDown() {
        l.Close()
        return ErrServerClosed
    }
    s.mu.Lock()
    s.ln = l
    if s.conns == nil {
        s.conns = make(map[net.Conn]bool)
    }
    s.mu.Unlock()
    defer l.Close()
    for {
        c, err := l.Accept()
        if err != nil {
            if s.shuttingDown() {
                return ErrServerClosed
            }
            return err
        }
        s.mu.Lock()
        s.conns[c] = true
        s.mu.Unlock()
        go s.serveConn(c)
    }
}

// Shutdown stops accepting, closes idle connections, and waits for
// in-flight requests to finish. When ctx expires the remaining
// connections are forcibly closed and ctx's error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
    s.inShutdown.Store(true)
    s.mu.Lock()
    if s.ln != nil {
        s.ln.Close()
    }
    s.mu.Unlock()

    t := time.NewTicker(10 * time.Millisecond)
    defer t.Stop()
    for {
        if s.closeIdleConns() == 0 {
            return nil
        }
        select {
        case <-ctx.Done():
            s.closeAllConns()
            return ctx.Err()
        case <-t.C:
        }
    }
}

// Close force-closes the listener and every open connection.
func (s *Server) Close() error {
    s.inShutdown.Store(true)
    s.mu.Lock()
    var err error
    if s.ln != nil {
        err = s.ln.Close()
    }
    s.mu.Unlock()
    s.closeAllConns()
    return err
}

// closeIdleConns closes connections parked between requests and
// reports how many connections remain open.
func (s *Server) closeIdleConns() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    for c, idle := range s.conns {
        if idle {
            c.Close()
            delete(s.conns, c)
        }
    }
    return len(s.conns)
}

func (s *Server) closeAllConns() {
    s.mu.Lock()
    defer s.mu.Unlock()
    for c := range s.conns {
        c.Close()
        delete(s.conns, c)
    }
}

func (s *Server) shuttingDown() bool {
    return s.inShutdown.Load()
}

// serveConn runs one connection's lifecycle: await bytes, parse,
// dispatch, write, then either loop for the next request (keep-alive)
// or close. Requests on a connection are strictly sequential; request
// N+1 is not read before response N has been flushed.
func (s *Server) serveConn(c net.Conn) {
    defer func() {
        c.Close()
        s.mu.Lock()
        delete(s.conns, c)
        s.mu.Unlock()
    }()
    br := bufio.NewReader(c)
    bw := bufio.NewWriter(c)
    rr := &http1.Reader{
        BR:                  br,
        MaxHeaderBytes:      s.headerLimit(),
        MaxTotalHeaderBytes: s.totalHeaderLimit(),
        MaxBodyBytes:        s.MaxBodyBytes,
    }
    for {
        // Await the first byte under the idle deadline. A clean close
        // here (EOF before any bytes) is a normal end of stream.
        s.markIdle(c, true)
        if s.IdleTimeout > 0 {
            _ = c.SetReadDeadline(time.Now().Add(s.IdleTimeout))
        } else {
            _ = c.SetReadDeadline(time.Time{})
        }
        if _, err := br.Peek(1); err != nil {
            if err != io.EOF {
                s.logf(obs.Debug, "httpd: idle close %s: %v", c.RemoteAddr(), err)
            }
            return
        }
        s.markIdle(c, false)

        if s.ReadHeaderTimeout > 0 {
            _ = c.SetReadDeadline(time.Now().Add(s.ReadHeaderTimeout))
        }
        pr, err := rr.ReadRequest()
        if err != nil {
            // Connection-fatal: the framing boundary is not
            // trustworthy, so no best-effort response is sent.
            s.meter().Counter("request_errors_total", 1, obs.Label{Key: "reason", Value: errReason(err)})
            s.logf(obs.Warn, "httpd: read request from %s: %v", c.RemoteAddr(), err)
            return
        }

        path, query := splitTarget(pr.RequestURI)
        r := &Request{
            Method:        pr.Method,
            RequestURI:    pr.RequestURI,
            Path:          path,
            Query:         query,
            Proto:         pr.Proto,
            ProtoMajor:    pr.ProtoMajor,
            ProtoMinor:    pr.ProtoMinor,
            Header:        Header(pr.Header),
            Body:          pr.Body,
            ContentLength: pr.ContentLength,
            Host:          Header(pr.Header).Get("Host"),
            RemoteAddr:    c.RemoteAddr().String(),
        }

        start := time.Now()
        res := s.dispatch(r)

        if s.WriteTimeout > 0 {
            _ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
        }
        err = http1.WriteResponse(bw, res.StatusCode, res.Reason, res.Fields(), res.Body)
        if err == nil {
            err = bw.Flush()
        }
        if err != nil {
            // Partial writes are never retried; the client could not
            // tell resent bytes from a malformed stream.
            s.meter().Counter("request_errors_total", 1, obs.Label{Key: "reason", Value: "write"})
            s.logf(obs.Warn, "httpd: write response to %s: %v", c.RemoteAddr(), err)
            return
        }

        s.logf(obs.Info, "%d - %s %s %s", res.StatusCode, r.Method, r.Path, r.UserAgent())
        s.meter().Counter("requests_total", 1, obs.Label{Key: "status", Value: strconv.Itoa(res.StatusCode)})
        s.meter().Histogram("request_duration_seconds", time.Since(start).Seconds())

        if !keepAlive(r, res) || s.shuttingDown() {
            return
        }
    }
}

// dispatch always produces a response: a nil Handler yields the bare
// 404, and a panicking handler (or nil response) is downgraded to 500
// so handler bugs never corrupt connection state.
func (s *Server) dispatch(r *Request) (res *Response) {
    defer func() {
        if v := recover(); v != nil {
            s.logf(obs.Error, "httpd: handler panic on %s %s: %v", r.Method, r.Path, v)
            res = &Response{StatusCode: 500}
        }
    }()
    if s.Handler == nil {
        return &Response{StatusCode: 404}
    }
    res = s.Handler.Serve(r)
    if res == nil {
        res = &Response{StatusCode: 500}
    }
    return res
}

// keepAlive applies the negotiation rules: HTTP/1.1 defaults to
// keep-alive unless either side says close; HTTP/1.0 defaults to close
// unless the request asks for keep-alive.
func keepAlive(r *Request, res *Response) bool {
    if strings.EqualFold(res.GetHeader("Connection"), "close") {
        return false
    }
    conn := strings.ToLower(r.Header.Get("Connection"))
    if r.ProtoMajor == 1 && r.ProtoMinor >= 1 {
        return conn != "close"
    }
    return conn == "keep-alive"
}

func splitTarget(uri string) (path, query string) {
    if i := strings.IndexByte(uri, '?'); i >= 0 {
        return uri[:i], uri[i+1:]
    }
    return uri, ""
}

func (s *Server) markIdle(c net.Conn, idle bool) {
    s.mu.Lock()
    if _, ok := s.conns[c]; ok {
        s.conns[c] = idle
    }
    s.mu.Unlock()
}

func (s *Server) headerLimit() int {
    if s.MaxHeaderBytes <= 0 {
        return 8 << 10
    }
    return s.MaxHeaderBytes
}

func (s *Server) totalHeaderLimit() int {
    if s.MaxTotalHeaderBytes <= 0 {
        return 64 << 10
    }
    return s.MaxTotalHeaderBytes
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
    if s.Logger != nil {
        s.Logger.Logf(level, format, args...)
    }
}

func (s *Server) meter() obs.Meter {
    if s.Meter == nil {
        return obs.NopMeter{}
    }
    return s.Meter
}

func errReason(err error) string {
    switch {
    case errors.Is(err, ErrMalformedRequestLine):
        return "malformed_request_line"
    case errors.Is(err, ErrMalformedHeader):
        return "malformed_header"
    case errors.Is(err, ErrInvalidContentLength):
        return "invalid_content_length"
    case errors.Is(err, ErrIncompleteBody):
        return "incomplete_body"
    case errors.Is(err, ErrUnsupportedTransferEncoding):
        return "unsupported_transfer_encoding"
    case errors.Is(err, ErrHeaderTooLarge):
        return "header_too_large"
    case errors.Is(err, ErrBodyTooLarge):
        return "body_too_large"
    default:
        return "read"
    }
}
