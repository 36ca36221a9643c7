package httpd

// Request represents one parsed HTTP request.
//
// Fields are a subset tailored for HTTP/1.x serving. The body is read
// in full during parsing (Content-Length framing only), so Body is
// always the complete payload and the connection is ready for the next
// request once the handler returns.
type Request struct {
    Method     string
    RequestURI string
    // Path is the request target up to any '?', always starting
    // with "/". Routes match against Path, not RequestURI.
    Path       string
    Query      string
    Proto      string
    ProtoMajor int
    ProtoMinor int
    Header     Header
    Body       []byte
    // ContentLength is the declared body length; len(Body) after a
    // successful parse.
    ContentLength int64
    Host          string
    RemoteAddr    string
}

// UserAgent returns the User-Agent header, if any.
func (r *Request) UserAgent() string {
    return r.Header.Get("User-Agent")
}
