package httpserver

import "runtime"

// conn is the minimal surface response writing needs from a
// *tcp.Conn, narrowed so this file has no tinygo/lneto dependency and can
// be tested on the host against a fake.
type conn interface {
	Write(p []byte) (int, error)
	Flush() error
}

// maxChunk bounds every body write to a 4KiB streaming chunk.
const maxChunk = 4096

// ResponseWriter accumulates a status line, headers and body and streams
// them to conn in bounded chunks, pacing with runtime.Gosched() the way
// ota_server.go's flushOTA does after every write so the TCP stack's
// background goroutine gets a chance to drain the packet queue.
type ResponseWriter struct {
	c           conn
	headersSent bool
	status      int
	headers     []Header
	acceptsGzip bool
}

// SetAcceptsGzip records whether the requesting client advertised gzip
// support, consulted by the first Write call. Router.Dispatch sets this
// from the request's Accept-Encoding header before invoking a handler.
func (w *ResponseWriter) SetAcceptsGzip(v bool) {
	w.acceptsGzip = v
}

// NewResponseWriter wraps c.
func NewResponseWriter(c conn) *ResponseWriter {
	return &ResponseWriter{c: c, status: 200}
}

// SetStatus sets the status code to send with the first write. Calling it
// after headers have been sent has no effect.
func (w *ResponseWriter) SetStatus(code int) {
	if !w.headersSent {
		w.status = code
	}
}

// SetHeader queues a response header to send with the first write.
func (w *ResponseWriter) SetHeader(name, value string) {
	if w.headersSent {
		return
	}
	w.headers = append(w.headers, Header{Name: name, Value: value})
}

// Write sends the status line and headers on first call, then streams p
// in ≤4KiB chunks, flushing and yielding between each the way
// ota_server.go's writeOTA/flushOTA pair does for every protocol message.
func (w *ResponseWriter) Write(p []byte) (int, error) {
	if !w.headersSent {
		if w.acceptsGzip && len(p) > gzipThreshold {
			if compressed, ok := gzipCompress(p); ok {
				w.SetHeader("Content-Encoding", "gzip")
				p = compressed
			}
		}
		if err := w.writeHeaders(); err != nil {
			return 0, err
		}
	}
	total := 0
	for len(p) > 0 {
		n := len(p)
		if n > maxChunk {
			n = maxChunk
		}
		written, err := w.c.Write(p[:n])
		total += written
		if err != nil {
			return total, err
		}
		if err := w.c.Flush(); err != nil {
			return total, err
		}
		for i := 0; i < 5; i++ {
			runtime.Gosched()
		}
		p = p[n:]
	}
	return total, nil
}

func (w *ResponseWriter) writeHeaders() error {
	w.headersSent = true
	line := statusLine(w.status)
	if _, err := w.c.Write([]byte(line)); err != nil {
		return err
	}
	for _, h := range w.headers {
		if _, err := w.c.Write([]byte(h.Name + ": " + h.Value + "\r\n")); err != nil {
			return err
		}
	}
	_, err := w.c.Write([]byte("\r\n"))
	return err
}

// Flush finalizes headers (if no body was ever written) and flushes the
// connection.
func (w *ResponseWriter) Flush() error {
	if !w.headersSent {
		if err := w.writeHeaders(); err != nil {
			return err
		}
	}
	return w.c.Flush()
}

func statusLine(code int) string {
	text := "OK"
	switch code {
	case 200:
		text = "OK"
	case 400:
		text = "Bad Request"
	case 401:
		text = "Unauthorized"
	case 404:
		text = "Not Found"
	case 409:
		text = "Conflict"
	case 413:
		text = "Payload Too Large"
	case 429:
		text = "Too Many Requests"
	case 500:
		text = "Internal Server Error"
	case 503:
		text = "Service Unavailable"
	}
	return "HTTP/1.1 " + intString(code) + " " + text + "\r\n"
}

func intString(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
