package httpd

import (
    "strings"

    "github.com/joshmaker/simplehttp/httpd/internal/http1"
)

// Field is one response header line.
type Field = http1.Field

// Response is a complete response produced by a handler. Header fields
// keep their insertion order through serialization; lookup is
// case-insensitive. A zero Reason is filled from the status table when
// the response is written. If Content-Length is set explicitly it must
// equal len(Body); when absent the writer computes it.
type Response struct {
    StatusCode int
    Reason     string
    Body       []byte

    fields []Field
}

// SetHeader replaces the value of name, keeping the position of its
// first occurrence and dropping any later duplicates. Absent names are
// appended.
func (r *Response) SetHeader(name, value string) {
    idx := -1
    for i := range r.fields {
        if strings.EqualFold(r.fields[i].Name, name) {
            idx = i
            break
        }
    }
    if idx < 0 {
        r.fields = append(r.fields, Field{Name: name, Value: value})
        return
    }
    r.fields[idx].Value = value
    kept := r.fields[:idx+1]
    for _, f := range r.fields[idx+1:] {
        if !strings.EqualFold(f.Name, name) {
            kept = append(kept, f)
        }
    }
    r.fields = kept
}

// AddHeader appends a field, preserving existing values of name.
func (r *Response) AddHeader(name, value string) {
    r.fields = append(r.fields, Field{Name: name, Value: value})
}

// GetHeader returns the first value of name, case-insensitively.
func (r *Response) GetHeader(name string) string {
    for _, f := range r.fields {
        if strings.EqualFold(f.Name, name) {
            return f.Value
        }
    }
    return ""
}

// DelHeader removes every field named name.
func (r *Response) DelHeader(name string) {
    kept := r.fields[:0]
    for _, f := range r.fields {
        if !strings.EqualFold(f.Name, name) {
            kept = append(kept, f)
        }
    }
    r.fields = kept
}

// Fields returns the header fields in insertion order.
func (r *Response) Fields() []Field {
    return r.fields
}
