// Package httpd is a small, educational HTTP/1.1 server aimed at
// showing how a listening socket accepts connections, parses requests,
// and emits responses.
//
// Highlights
//   - Server: one goroutine per connection, keep-alive, strict
//     request/response alternation, idle/read/write deadlines,
//     graceful shutdown, logging/metrics hooks.
//   - Router: exact method+path dispatch with duplicate detection,
//     a replaceable not-found fallback, and panic isolation (a
//     failing handler becomes a 500, never a dead connection
//     goroutine).
//   - Parsing: Content-Length framing only. Malformed input closes
//     the connection; no best-effort responses are sent on a broken
//     framing boundary.
//   - FileServer: a Handler serving files from a directory, with
//     extension-based content types and an optional custom 404 page.
//
// Quick start:
//
//	rt := httpd.NewRouter()
//	rt.HandleFunc("GET", "/hello", func(r *httpd.Request) *httpd.Response {
//	    return &httpd.Response{StatusCode: 200, Body: []byte("hi")}
//	})
//	s := &httpd.Server{Addr: ":8080", Handler: rt}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
//
// Routes must be registered before the server starts; the route table
// is read-only once Serve begins, so no locking is involved on the
// request path.
package httpd
