package httpserver

import (
	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/logging"
)

// LogRoutes registers GET /api/logs/recent?count=N against ring.
func LogRoutes(rt *Router, ring *logging.Ring) {
	rt.Handle("GET", "/api/logs/recent", func(w *ResponseWriter, r *Request, c Clock) {
		count := 50
		if v, ok := r.QueryParam("count"); ok {
			if n, ok := parseUint(v); ok {
				count = int(n)
			}
		}

		entries := ring.Recent(count)
		var buf [4096]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ArrayStart()
		for i, e := range entries {
			if i > 0 {
				jw.Comma()
			}
			jw.ObjectStart()
			jw.Key("timestamp")
			jw.Int(e.Timestamp.Unix())
			jw.Comma()
			jw.Key("level")
			jw.String(e.Level.String())
			jw.Comma()
			jw.Key("message")
			jw.String(e.Message())
			jw.ObjectEnd()
		}
		jw.ArrayEnd()
		w.SetHeader("Content-Type", "application/json")
		w.Write(jw.Bytes())
	})
}
