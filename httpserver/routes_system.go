package httpserver

import (
	"time"

	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/metrics"
)

// SystemRoutes registers /api/system and /api/restart. restart is called
// after the response has been flushed; main.go wires it to a reboot.
func SystemRoutes(rt *Router, snap *metrics.Snapshot, restart func()) {
	rt.Handle("GET", "/api/system", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "application/json")
		var buf [256]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("version")
		jw.String(snap.FirmwareVersion())
		jw.Comma()
		jw.Key("ssid")
		jw.String(snap.SSID())
		jw.Comma()
		jw.Key("free_heap")
		jw.Uint(uint64(snap.HeapFree()))
		jw.Comma()
		jw.Key("uptime_ms")
		jw.Int(snap.UptimeMS(time.Unix(c.UnixNow(), 0)))
		jw.ObjectEnd()
		w.Write(jw.Bytes())
	})

	rt.Handle("POST", "/api/restart", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "application/json")
		w.Write([]byte(`{"status":"restarting"}`))
		w.Flush()
		if restart != nil {
			go func() {
				time.Sleep(time.Second)
				restart()
			}()
		}
	})
}
