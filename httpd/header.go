package httpd

import (
    "net/textproto"
)

// Header maps canonical field names to values in order of appearance.
// Lookup is case-insensitive; duplicates are preserved, never
// overwritten.
type Header map[string][]string

func (h Header) Get(key string) string {
    if h == nil {
        return ""
    }
    k := textproto.CanonicalMIMEHeaderKey(key)
    if vv, ok := h[k]; ok && len(vv) > 0 {
        return vv[0]
    }
    return ""
}

// Values returns all values for key, in order of appearance.
func (h Header) Values(key string) []string {
    if h == nil {
        return nil
    }
    return h[textproto.CanonicalMIMEHeaderKey(key)]
}

func (h Header) Set(key, value string) {
    if h == nil {
        return
    }
    k := textproto.CanonicalMIMEHeaderKey(key)
    h[k] = []string{value}
}

func (h Header) Add(key, value string) {
    if h == nil {
        return
    }
    k := textproto.CanonicalMIMEHeaderKey(key)
    h[k] = append(h[k], value)
}

func (h Header) Del(key string) {
    if h == nil {
        return
    }
    k := textproto.CanonicalMIMEHeaderKey(key)
    delete(h, k)
}
