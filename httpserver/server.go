//go:build tinygo

// Package httpserver hand-rolls an HTTP/1.1 server over
// github.com/soypat/lneto's tcp.Conn. TinyGo's net/http does not run
// over a custom netstack, so there is no stdlib seam to borrow here;
// framing and the accept loop are built directly on tcp.Conn.
package httpserver

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
)

// maxConnections bounds open sockets; beyond this the oldest idle
// connection is evicted to make room for a new one.
const maxConnections = 4

const maxRequestLine = 4096

type slot struct {
	conn     tcp.Conn
	lastUsed time.Time
	inUse    bool
}

// Server owns the fixed connection table and dispatches accepted
// connections to a Router.
type Server struct {
	Router *Router
	Logger *slog.Logger
	Port   uint16

	slots [maxConnections]slot
}

type realClock struct{}

func (realClock) UnixNow() int64 { return time.Now().Unix() }

// Serve runs the accept loop forever, following consoleServer's pattern
// of Configure once, then Abort/sleep/ListenTCP/wait-for-SYN per
// connection cycle.
func (s *Server) Serve(stack *xnet.StackAsync) {
	for i := range s.slots {
		var rx, tx [4096]byte
		_ = s.slots[i].conn.Configure(tcp.ConnConfig{
			RxBuf:             rx[:],
			TxBuf:             tx[:],
			TxPacketQueueSize: 3,
		})
	}

	s.Logger.Info("httpserver:listening", slog.Int("port", int(s.Port)))

	for {
		idx := s.pickSlot()
		sl := &s.slots[idx]

		sl.conn.Abort()
		time.Sleep(50 * time.Millisecond)

		if err := stack.ListenTCP(&sl.conn, s.Port); err != nil {
			s.Logger.Error("httpserver:listen-failed", slog.String("err", err.Error()))
			time.Sleep(time.Second)
			continue
		}

		waitCount := 0
		for sl.conn.State().IsPreestablished() && waitCount < 3000 {
			time.Sleep(10 * time.Millisecond)
			waitCount++
		}
		if !sl.conn.State().IsSynchronized() {
			sl.conn.Abort()
			continue
		}

		sl.inUse = true
		sl.lastUsed = time.Now()
		s.handleConnection(&sl.conn)
		sl.conn.Close()
		for i := 0; i < 20 && !sl.conn.State().IsClosed(); i++ {
			time.Sleep(50 * time.Millisecond)
		}
		sl.conn.Abort()
		sl.inUse = false
	}
}

// pickSlot returns a free slot, or the least-recently-used in-use slot
// if all are occupied, evicting it to make room.
func (s *Server) pickSlot() int {
	for i := range s.slots {
		if !s.slots[i].inUse {
			return i
		}
	}
	oldest := 0
	for i := 1; i < len(s.slots); i++ {
		if s.slots[i].lastUsed.Before(s.slots[oldest].lastUsed) {
			oldest = i
		}
	}
	return oldest
}

func (s *Server) handleConnection(c *tcp.Conn) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("httpserver:panic-recovered")
		}
	}()

	req, err := readRequest(c)
	if err != nil {
		s.Logger.Warn("httpserver:bad-request", slog.String("err", err.Error()))
		return
	}

	w := NewResponseWriter(c)
	s.Router.Dispatch(w, req, realClock{})
	w.Flush()
}

// readRequest parses the request line, headers and (if Content-Length is
// set) the body, byte-scanning the socket the same way
// handleConsoleSession scans for telnet lines.
func readRequest(c *tcp.Conn) (*Request, error) {
	var lineBuf [maxRequestLine]byte
	line, err := readLine(c, lineBuf[:])
	if err != nil {
		return nil, err
	}
	method, path, query, proto, ok := ParseRequestLine(line)
	if !ok {
		return nil, errors.New("malformed request line")
	}
	req := &Request{Method: method, Path: path, Query: query, Proto: proto}

	for {
		var hbuf [512]byte
		hline, err := readLine(c, hbuf[:])
		if err != nil {
			return nil, err
		}
		if hline == "" {
			break
		}
		name, value, ok := ParseHeaderLine(hline)
		if ok {
			req.Headers = append(req.Headers, Header{Name: name, Value: value})
		}
	}

	if n := req.ContentLength(); n > 0 {
		body := make([]byte, n)
		if err := readExactly(c, body, 10*time.Second); err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}

// readLine reads up to and including a CRLF into buf, returning the line
// without the terminator.
func readLine(c *tcp.Conn, buf []byte) (string, error) {
	deadline := time.Now().Add(10 * time.Second)
	n := 0
	var one [1]byte
	for n < len(buf) {
		if time.Now().After(deadline) {
			return "", errors.New("timeout")
		}
		readN, err := c.Read(one[:])
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
			return "", err
		}
		if readN == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if one[0] == '\n' {
			end := n
			if end > 0 && buf[end-1] == '\r' {
				end--
			}
			return string(buf[:end]), nil
		}
		buf[n] = one[0]
		n++
	}
	return "", errors.New("line too long")
}

func readExactly(c *tcp.Conn, buf []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	total := 0
	for total < len(buf) {
		if time.Now().After(deadline) {
			return errors.New("timeout")
		}
		n, err := c.Read(buf[total:])
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
			return err
		}
		if n > 0 {
			total += n
		} else {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return nil
}
