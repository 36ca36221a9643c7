package httpd

import (
    "mime"
    "os"
    "path"
    "path/filepath"
    "strings"
)

const serverName = "simplehttp"

// defaultNotFoundPage is served when no custom page is configured.
var defaultNotFoundPage = []byte("<html><h1>404 File Not Found</h1></html>")

// FileServer serves files from Root. Directories fall back to their
// index page, content types come from the file extension, and misses
// produce a 404 with NotFoundPage (or the built-in one). It is meant
// to be mounted as a Router's NotFound fallback or used directly as
// the server's Handler.
type FileServer struct {
    Root string
    // Index is the file served for directory paths. Defaults to
    // "index.html".
    Index string
    // NotFoundPage, when set, replaces the built-in 404 HTML body.
    NotFoundPage []byte
}

func (f *FileServer) Serve(r *Request) *Response {
    if r.Method != "GET" {
        res := &Response{StatusCode: 405}
        res.SetHeader("Allow", "GET")
        res.SetHeader("Server", serverName)
        return res
    }
    name := f.resolve(r.Path)
    if fi, err := os.Stat(name); err == nil && fi.IsDir() {
        name = filepath.Join(name, f.index())
    }
    body, err := os.ReadFile(name)
    if err != nil {
        if os.IsPermission(err) {
            res := &Response{StatusCode: 403, Body: []byte("403 Forbidden")}
            res.SetHeader("Content-Type", "text/plain; charset=utf-8")
            res.SetHeader("Server", serverName)
            return res
        }
        return f.notFound()
    }
    ct := mime.TypeByExtension(filepath.Ext(name))
    if ct == "" {
        ct = "application/octet-stream"
    }
    res := &Response{StatusCode: 200, Body: body}
    res.SetHeader("Content-Type", ct)
    res.SetHeader("Server", serverName)
    return res
}

// resolve maps a request path to a filesystem path under Root.
// Cleaning the rooted path first keeps ".." from escaping Root.
func (f *FileServer) resolve(reqPath string) string {
    p := path.Clean("/" + reqPath)
    return filepath.Join(f.Root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func (f *FileServer) index() string {
    if f.Index == "" {
        return "index.html"
    }
    return f.Index
}

func (f *FileServer) notFound() *Response {
    body := f.NotFoundPage
    if body == nil {
        body = defaultNotFoundPage
    }
    res := &Response{StatusCode: 404, Body: body}
    res.SetHeader("Content-Type", "text/html; charset=utf-8")
    res.SetHeader("Server", serverName)
    return res
}
