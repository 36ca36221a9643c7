package http1

import (
	"bufio"
	"bytes"
	"testing"
)

func serialize(t *testing.T, status int, reason string, fields []Field, body []byte) string {
	t.Helper()
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteResponse(bw, status, reason, fields, body); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

func TestWriteResponse_AutoContentLength(t *testing.T) {
	got := serialize(t, 200, "", nil, []byte("hi"))
	want := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_EmptyBodyStillFramed(t *testing.T) {
	got := serialize(t, 404, "", nil, nil)
	want := "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_InsertionOrderPreserved(t *testing.T) {
	fields := []Field{
		{"X-Second", "no wait, first"},
		{"Content-Type", "text/plain"},
		{"X-Second", "again"},
	}
	got := serialize(t, 200, "", fields, []byte("abc"))
	want := "HTTP/1.1 200 OK\r\n" +
		"X-Second: no wait, first\r\n" +
		"Content-Type: text/plain\r\n" +
		"X-Second: again\r\n" +
		"Content-Length: 3\r\n" +
		"\r\nabc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_ExplicitContentLengthKept(t *testing.T) {
	fields := []Field{{"Content-Length", "2"}}
	got := serialize(t, 200, "", fields, []byte("hi"))
	want := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_CustomReason(t *testing.T) {
	got := serialize(t, 299, "Good Enough", nil, nil)
	want := "HTTP/1.1 299 Good Enough\r\nContent-Length: 0\r\n\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_SanitizesValues(t *testing.T) {
	fields := []Field{{"X-Evil", "a\r\nInjected: yes"}}
	got := serialize(t, 200, "", fields, nil)
	want := "HTTP/1.1 200 OK\r\nX-Evil: aInjected: yes\r\nContent-Length: 0\r\n\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteResponse_SkipsInvalidFieldNames(t *testing.T) {
	fields := []Field{{"Bad Name", "v"}, {"Good-Name", "v"}}
	got := serialize(t, 200, "", fields, nil)
	want := "HTTP/1.1 200 OK\r\nGood-Name: v\r\nContent-Length: 0\r\n\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(404); got != "Not Found" {
		t.Fatalf("404 = %q", got)
	}
	if got := StatusText(299); got != "" {
		t.Fatalf("299 = %q", got)
	}
}
