package httpserver

import (
	"time"

	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/metrics"
)

// MetricsRoutes registers /metrics, /api/metrics and /api/metrics/binary
// against snap.
func MetricsRoutes(rt *Router, snap *metrics.Snapshot) {
	rt.Handle("GET", "/metrics", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "text/plain; version=0.0.4")
		w.Write(prometheusExposition(snap, c))
	})

	rt.Handle("GET", "/api/metrics", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "application/json")
		var buf [768]byte
		jw := jsonw.NewWriter(buf[:])
		writeMetricsJSON(jw, snap, c)
		w.Write(jw.Bytes())
	})

	rt.Handle("GET", "/api/metrics/binary", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "application/octet-stream")
		pkt := snap.EncodeBinary(time.Unix(c.UnixNow(), 0))
		w.Write(pkt[:])
	})
}

func writeMetricsJSON(w *jsonw.Writer, s *metrics.Snapshot, c Clock) {
	raw, filtered := s.TemperatureCurve()
	w.ObjectStart()
	w.Key("temperature_raw_c")
	w.Float1(raw)
	w.Comma()
	w.Key("temperature_filtered_c")
	w.Float1(filtered)
	w.Comma()
	w.Key("battery_percent")
	w.Int(int64(s.BatteryPercent()))
	w.Comma()
	w.Key("battery_mv")
	w.Uint(uint64(s.BatteryMV()))
	w.Comma()
	w.Key("charging")
	w.Bool(s.Charging())
	w.Comma()
	w.Key("fps")
	w.Float1(float64(s.FPSX10()) / 10)
	w.Comma()
	w.Key("fps_target")
	w.Uint(uint64(s.FPSTarget()))
	w.Comma()
	w.Key("cpu_percent")
	w.Int(int64(s.CPUPercent()))
	w.Comma()
	w.Key("cpu0_percent")
	w.Int(int64(s.CPU0Percent()))
	w.Comma()
	w.Key("cpu1_percent")
	w.Int(int64(s.CPU1Percent()))
	w.Comma()
	w.Key("cpu_mhz")
	w.Uint(uint64(s.CPUMHz()))
	w.Comma()
	w.Key("heap_free")
	w.Uint(uint64(s.HeapFree()))
	w.Comma()
	w.Key("heap_total")
	w.Uint(uint64(s.HeapTotal()))
	w.Comma()
	w.Key("rssi")
	w.Int(int64(s.RSSI()))
	w.Comma()
	w.Key("wifi_connected")
	w.Bool(s.WiFiConnected())
	w.Comma()
	w.Key("brightness")
	w.Uint(uint64(s.Brightness()))
	w.Comma()
	w.Key("frame_count")
	w.Uint(uint64(s.FrameCount()))
	w.Comma()
	w.Key("skip_count")
	w.Uint(uint64(s.SkipCount()))
	w.Comma()
	w.Key("render_ms")
	w.Uint(uint64(s.RenderMS()))
	w.Comma()
	w.Key("flush_ms")
	w.Uint(uint64(s.FlushMS()))
	w.Comma()
	w.Key("uptime_ms")
	w.Int(s.UptimeMS(time.Unix(c.UnixNow(), 0)))
	w.ObjectEnd()
}

// prometheusExposition renders the snapshot in the text exposition
// format. No pack example emits Prometheus metrics, so the format
// itself — "# TYPE", "name value" per line — comes straight from the
// upstream exposition spec; only the zero-allocation number formatting
// via jsonw.Writer is carried over from this repo's own style.
func prometheusExposition(s *metrics.Snapshot, c Clock) []byte {
	var buf [1024]byte
	w := jsonw.NewWriter(buf[:])

	line := func(name string, help string) {
		w.Raw("# HELP " + name + " " + help + "\n")
		w.Raw("# TYPE " + name + " gauge\n")
	}

	line("esp32_temperature_celsius", "filtered board temperature")
	w.Raw("esp32_temperature_celsius ")
	_, filtered := s.TemperatureCurve()
	w.Float1(filtered)
	w.Raw("\n")

	line("esp32_battery_percent", "battery state of charge")
	w.Raw("esp32_battery_percent ")
	w.Int(int64(s.BatteryPercent()))
	w.Raw("\n")

	line("esp32_fps", "display frames per second")
	w.Raw("esp32_fps ")
	w.Float1(float64(s.FPSX10()) / 10)
	w.Raw("\n")

	line("esp32_heap_free_bytes", "free heap bytes")
	w.Raw("esp32_heap_free_bytes ")
	w.Uint(uint64(s.HeapFree()))
	w.Raw("\n")

	line("esp32_rssi_dbm", "WiFi signal strength")
	w.Raw("esp32_rssi_dbm ")
	w.Int(int64(s.RSSI()))
	w.Raw("\n")

	line("esp32_uptime_ms", "milliseconds since boot")
	w.Raw("esp32_uptime_ms ")
	w.Int(s.UptimeMS(time.Unix(c.UnixNow(), 0)))
	w.Raw("\n")

	return w.Bytes()
}
