package httpd

import (
	"errors"
	"testing"
)

func get(path string) *Request {
	return &Request{Method: "GET", Path: path, Proto: "HTTP/1.1", ProtoMajor: 1, ProtoMinor: 1, Header: Header{}}
}

func TestRouter_DuplicateRoute(t *testing.T) {
	rt := NewRouter()
	first := func(r *Request) *Response { return &Response{StatusCode: 200, Body: []byte("first")} }
	if err := rt.HandleFunc("GET", "/x", first); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := rt.HandleFunc("GET", "/x", func(r *Request) *Response { return &Response{StatusCode: 200} })
	if !errors.Is(err, ErrDuplicateRoute) {
		t.Fatalf("err=%v, want ErrDuplicateRoute", err)
	}
	// The failed attempt must leave the table unchanged.
	res := rt.Serve(get("/x"))
	if string(res.Body) != "first" {
		t.Fatalf("body=%q, want first handler's", res.Body)
	}
}

func TestRouter_ExactMatchOnly(t *testing.T) {
	rt := NewRouter()
	_ = rt.HandleFunc("GET", "/x", func(r *Request) *Response { return &Response{StatusCode: 200} })

	if res := rt.Serve(get("/x")); res.StatusCode != 200 {
		t.Fatalf("GET /x = %d", res.StatusCode)
	}
	if res := rt.Serve(get("/x/y")); res.StatusCode != 404 {
		t.Fatalf("GET /x/y = %d, want 404", res.StatusCode)
	}
	post := get("/x")
	post.Method = "POST"
	if res := rt.Serve(post); res.StatusCode != 404 {
		t.Fatalf("POST /x = %d, want 404", res.StatusCode)
	}
}

func TestRouter_NoRouteSkipsHandlers(t *testing.T) {
	rt := NewRouter()
	invoked := false
	_ = rt.HandleFunc("GET", "/hello", func(r *Request) *Response {
		invoked = true
		return &Response{StatusCode: 200}
	})
	res := rt.Serve(get("/missing"))
	if res.StatusCode != 404 {
		t.Fatalf("status=%d, want 404", res.StatusCode)
	}
	if invoked {
		t.Fatal("handler invoked for unmatched route")
	}
}

func TestRouter_PanicBecomes500(t *testing.T) {
	rt := NewRouter()
	_ = rt.HandleFunc("GET", "/boom", func(r *Request) *Response { panic("handler bug") })
	res := rt.Serve(get("/boom"))
	if res == nil || res.StatusCode != 500 {
		t.Fatalf("res=%+v, want 500", res)
	}
}

func TestRouter_NilResponseBecomes500(t *testing.T) {
	rt := NewRouter()
	_ = rt.HandleFunc("GET", "/nil", func(r *Request) *Response { return nil })
	res := rt.Serve(get("/nil"))
	if res == nil || res.StatusCode != 500 {
		t.Fatalf("res=%+v, want 500", res)
	}
}

func TestRouter_NotFoundFallback(t *testing.T) {
	rt := NewRouter()
	rt.NotFound = HandlerFunc(func(r *Request) *Response {
		return &Response{StatusCode: 404, Body: []byte("custom miss")}
	})
	res := rt.Serve(get("/anything"))
	if string(res.Body) != "custom miss" {
		t.Fatalf("body=%q", res.Body)
	}
}

func TestRouter_RejectsInvalidRoutes(t *testing.T) {
	rt := NewRouter()
	if err := rt.HandleFunc("GET", "nope", func(r *Request) *Response { return nil }); err == nil {
		t.Fatal("path without leading slash accepted")
	}
	if err := rt.HandleFunc("", "/x", func(r *Request) *Response { return nil }); err == nil {
		t.Fatal("empty method accepted")
	}
	if err := rt.Register("GET", "/x", nil); err == nil {
		t.Fatal("nil handler accepted")
	}
}
