package httpserver

import (
	"strings"
	"testing"
)

func TestResponseWriterSendsStatusLineAndHeaders(t *testing.T) {
	c := &fakeConn{}
	w := NewResponseWriter(c)
	w.SetStatus(404)
	w.SetHeader("Content-Type", "application/json")
	w.Write([]byte(`{"ok":false}`))

	out := string(c.buf)
	if !strings.HasPrefix(out, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("missing status line: %q", out)
	}
	if !strings.Contains(out, "Content-Type: application/json\r\n") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.HasSuffix(out, `{"ok":false}`) {
		t.Fatalf("missing body: %q", out)
	}
}

func TestResponseWriterDefaultsTo200(t *testing.T) {
	c := &fakeConn{}
	w := NewResponseWriter(c)
	w.Write([]byte("hi"))
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("got %q", c.buf)
	}
}

func TestResponseWriterSetStatusAfterHeadersIsNoOp(t *testing.T) {
	c := &fakeConn{}
	w := NewResponseWriter(c)
	w.Write([]byte("x"))
	w.SetStatus(500)
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("expected status to stay 200, got %q", c.buf)
	}
}

func TestResponseWriterChunksLargeBodies(t *testing.T) {
	c := &fakeConn{}
	w := NewResponseWriter(c)
	body := make([]byte, maxChunk*2+10)
	for i := range body {
		body[i] = 'a'
	}
	n, err := w.Write(body)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(body) {
		t.Fatalf("expected %d bytes written, got %d", len(body), n)
	}
}

func TestResponseWriterFlushSendsHeadersEvenWithoutBody(t *testing.T) {
	c := &fakeConn{}
	w := NewResponseWriter(c)
	w.SetStatus(204)
	w.Flush()
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 204") {
		t.Fatalf("got %q", c.buf)
	}
}
