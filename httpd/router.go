package httpd

import (
    "fmt"
    "strings"
)

// Handler produces a complete Response for a Request. Implementations
// are application-supplied; the Router stores them as opaque values
// keyed by method and path.
type Handler interface {
    Serve(*Request) *Response
}

type HandlerFunc func(*Request) *Response

func (f HandlerFunc) Serve(r *Request) *Response {
    return f(r)
}

type routeKey struct {
    method string
    path   string
}

// Router dispatches by exact method+path match. The table must be
// populated before the server starts accepting; it is read-only on the
// request path, so no synchronization is involved.
type Router struct {
    routes map[routeKey]Handler

    // NotFound, when set, replaces the built-in bare 404 for requests
    // that match no route. FileServer is a natural fit here.
    NotFound Handler
}

func NewRouter() *Router {
    return &Router{routes: make(map[routeKey]Handler)}
}

// Register binds handler to the exact (method, path) pair. The pair
// must be unique; registering it twice fails with ErrDuplicateRoute
// and leaves the table unchanged.
func (rt *Router) Register(method, path string, h Handler) error {
    if method == "" || !strings.HasPrefix(path, "/") || h == nil {
        return fmt.Errorf("httpd: invalid route %q %q", method, path)
    }
    k := routeKey{method: method, path: path}
    if _, ok := rt.routes[k]; ok {
        return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, path)
    }
    rt.routes[k] = h
    return nil
}

// HandleFunc is Register for plain functions.
func (rt *Router) HandleFunc(method, path string, f func(*Request) *Response) error {
    return rt.Register(method, path, HandlerFunc(f))
}

// Serve dispatches req. A missing route goes to NotFound (or a bare
// 404); a handler panic or nil response is downgraded to a bare 500,
// so handler bugs never reach the connection layer.
func (rt *Router) Serve(req *Request) (res *Response) {
    defer func() {
        if v := recover(); v != nil {
            res = &Response{StatusCode: 500}
        }
    }()
    if h, ok := rt.routes[routeKey{method: req.Method, path: req.Path}]; ok {
        res = h.Serve(req)
        if res == nil {
            res = &Response{StatusCode: 500}
        }
        return res
    }
    if rt.NotFound != nil {
        res = rt.NotFound.Serve(req)
        if res == nil {
            res = &Response{StatusCode: 404}
        }
        return res
    }
    return &Response{StatusCode: 404}
}
