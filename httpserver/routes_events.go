package httpserver

import (
	"sync/atomic"
	"time"

	"openenterprise/tinydash/apierr"
	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/metrics"
)

// sseMaxSubscribers caps concurrent SSE streams below the server's own
// 4-slot connection table, since each stream ties up its slot for up to
// sseMaxTicks rather than the single request/response cycle every other
// route uses.
const sseMaxSubscribers = 2

const (
	sseTickInterval   = time.Second
	sseHeartbeatEvery = 30  // ticks between comment-only heartbeats
	sseMaxTicks       = 300 // 5 minutes, then the stream self-terminates
)

var sseSubscribers int32

// EventRoutes registers GET /api/events, a metrics tail over
// Server-Sent Events.
func EventRoutes(rt *Router, snap *metrics.Snapshot) {
	rt.Handle("GET", "/api/events", func(w *ResponseWriter, r *Request, c Clock) {
		if !acquireSSESlot() {
			err := apierr.New(apierr.CodeUnavailable, "too many active event streams", time.Unix(c.UnixNow(), 0))
			WriteError(w, err, c)
			return
		}
		defer releaseSSESlot()
		serveSSEForTicks(w, snap, c, time.Sleep, sseMaxTicks)
	})
}

func acquireSSESlot() bool {
	for {
		n := atomic.LoadInt32(&sseSubscribers)
		if n >= sseMaxSubscribers {
			return false
		}
		if atomic.CompareAndSwapInt32(&sseSubscribers, n, n+1) {
			return true
		}
	}
}

func releaseSSESlot() {
	atomic.AddInt32(&sseSubscribers, -1)
}

// serveSSEForTicks streams one data: record per tick plus a comment-only
// heartbeat every sseHeartbeatEvery ticks, stopping after maxTicks or on
// the first write error (client gone). sleep and maxTicks are both
// injected so tests can run the loop without real wall-clock delay.
func serveSSEForTicks(w *ResponseWriter, snap *metrics.Snapshot, c Clock, sleep func(time.Duration), maxTicks int) {
	w.SetHeader("Content-Type", "text/event-stream")
	w.SetHeader("Cache-Control", "no-cache")
	w.SetHeader("Connection", "keep-alive")

	for tick := 0; tick < maxTicks; tick++ {
		var buf [768]byte
		jw := jsonw.NewWriter(buf[:])
		writeMetricsJSON(jw, snap, c)

		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if _, err := w.Write(jw.Bytes()); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return
		}

		if tick > 0 && tick%sseHeartbeatEvery == 0 {
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				return
			}
		}

		sleep(sseTickInterval)
	}
}
