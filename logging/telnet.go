//go:build tinygo

package logging

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
)

// TelnetPort is the fixed debug port.
const TelnetPort = uint16(23)

// maxSubscribers bounds the telnet fan-out to the same small slot count
// the HTTP surface caps connections at.
const maxSubscribers = 4

type subscriberSlot struct {
	conn  tcp.Conn
	inUse bool
}

// Telnet is a fan-out log broadcaster: on connect it sends a banner and a
// dump of the current ring, then every subsequent Broadcast call is
// written to every connected socket. It runs a
// Configure-once/Abort-ListenTCP-wait-for-SYN accept loop over a fixed
// slot table; a dead socket is detected lazily, as a failed Write rather
// than a separate peek, and removed.
type Telnet struct {
	Ring   *Ring
	Logger *slog.Logger

	mu    sync.Mutex
	slots [maxSubscribers]subscriberSlot
}

// NewTelnet wraps ring for broadcast and HTTP-surface reads.
func NewTelnet(ring *Ring, logger *slog.Logger) *Telnet {
	return &Telnet{Ring: ring, Logger: logger}
}

// Serve runs the accept loop forever. Each slot owns its own Conn and
// rx/tx buffers, configured once up front, the same shape
// httpserver.Server.Serve uses for its connection table.
func (t *Telnet) Serve(stack *xnet.StackAsync) {
	for i := range t.slots {
		var rx, tx [2048]byte
		_ = t.slots[i].conn.Configure(tcp.ConnConfig{RxBuf: rx[:], TxBuf: tx[:], TxPacketQueueSize: 3})
	}

	t.Logger.Info("logging:telnet-listening", slog.Int("port", int(TelnetPort)))

	for {
		idx := t.pickSlot()
		if idx < 0 {
			// Every slot is a live subscriber; wait for one to drop
			// before accepting a new connection.
			time.Sleep(time.Second)
			continue
		}
		sl := &t.slots[idx]

		sl.conn.Abort()
		time.Sleep(100 * time.Millisecond)

		if err := stack.ListenTCP(&sl.conn, TelnetPort); err != nil {
			t.Logger.Error("logging:telnet-listen-failed", slog.String("err", err.Error()))
			time.Sleep(time.Second)
			continue
		}

		waitCount := 0
		for sl.conn.State().IsPreestablished() && waitCount < 6000 {
			time.Sleep(10 * time.Millisecond)
			waitCount++
		}
		if !sl.conn.State().IsSynchronized() {
			sl.conn.Abort()
			continue
		}

		t.mu.Lock()
		sl.inUse = true
		t.sendBannerLocked(idx)
		t.mu.Unlock()
	}
}

// pickSlot returns a free subscriber slot, or -1 if all four are
// occupied. Unlike the HTTP server's LRU eviction, a log tail has no
// single request to finish, so a full slot table just pauses accepting
// new viewers rather than bumping an existing one.
func (t *Telnet) pickSlot() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.slots {
		if !t.slots[i].inUse {
			return i
		}
	}
	return -1
}

func (t *Telnet) sendBannerLocked(i int) {
	writeLine(&t.slots[i].conn, "tinydash log tail\r\n")
	for _, e := range t.Ring.Recent(0) {
		writeLine(&t.slots[i].conn, formatEntry(e))
	}
}

// Broadcast writes line to every connected subscriber, dropping any slot
// whose write fails.
func (t *Telnet) Broadcast(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := line + "\r\n"
	for i := range t.slots {
		if !t.slots[i].inUse {
			continue
		}
		if _, err := t.slots[i].conn.Write([]byte(msg)); err != nil {
			t.slots[i].conn.Abort()
			t.slots[i].inUse = false
			continue
		}
		t.slots[i].conn.Flush()
	}
}

func writeLine(c *tcp.Conn, s string) {
	c.Write([]byte(s))
	c.Flush()
}

func formatEntry(e Entry) string {
	return e.Level.String() + " " + e.Message() + "\r\n"
}
