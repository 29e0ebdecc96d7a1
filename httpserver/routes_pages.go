package httpserver

import (
	"time"

	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/metrics"
)

const pageCSS = `<style>
body { font-family: -apple-system, system-ui, sans-serif; background: #f9fafb; margin: 0; padding: 20px; color: #111827; }
.container { max-width: 960px; margin: 0 auto; }
.card { background: white; border-radius: 12px; padding: 24px; margin-bottom: 20px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.07); }
.card h1, .card h2 { margin: 0 0 16px 0; color: #111827; }
.metric { display: flex; justify-content: space-between; padding: 12px 0; border-bottom: 1px solid #e5e7eb; }
.metric:last-child { border-bottom: none; }
.metric-label { font-weight: 500; }
.metric-value { color: #3b82f6; font-family: monospace; }
.button { display: inline-block; background: #3b82f6; color: white; padding: 10px 20px; border-radius: 8px; text-decoration: none; margin: 4px 8px 4px 0; }
.button:hover { background: #2563eb; }
nav { margin-bottom: 20px; }
nav a { margin-right: 16px; color: #3b82f6; text-decoration: none; }
</style>`

const pageNav = `<nav><a href="/">Home</a><a href="/dashboard">Dashboard</a><a href="/ota">OTA</a></nav>`

// PageRoutes registers the three HTML page routes (§6): the home page, the
// live dashboard shell, and the OTA upload page (or its unavailable
// variant). Content is built with jsonw.Writer's Raw/Uint/Float1 helpers
// as a plain byte-buffer builder, not for JSON — the same zero-allocation
// approach streaming_home.rs takes with a fixed stack buffer and
// sequential write_all calls, adapted to this package's single-buffer,
// single-Write-call convention.
func PageRoutes(rt *Router, snap *metrics.Snapshot, otaAvailable func() bool) {
	rt.Handle("GET", "/", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "text/html; charset=utf-8")
		var buf [4096]byte
		jw := jsonw.NewWriter(buf[:])
		writeHomePage(jw, snap, c)
		w.Write(jw.Bytes())
	})

	rt.Handle("GET", "/dashboard", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "text/html; charset=utf-8")
		var buf [4096]byte
		jw := jsonw.NewWriter(buf[:])
		writeDashboardPage(jw, snap, c)
		w.Write(jw.Bytes())
	})

	rt.Handle("GET", "/ota", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "text/html; charset=utf-8")
		available := otaAvailable == nil || otaAvailable()
		var buf [4096]byte
		jw := jsonw.NewWriter(buf[:])
		writeOTAPage(jw, available)
		w.Write(jw.Bytes())
	})
}

func writeHomePage(w *jsonw.Writer, s *metrics.Snapshot, c Clock) {
	w.Raw("<!DOCTYPE html><html><head><title>tinydash</title>")
	w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.Raw(pageCSS)
	w.Raw("</head><body><div class=\"container\">")
	w.Raw(pageNav)
	w.Raw("<div class=\"card\"><h1>tinydash</h1>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Firmware version</span><span class=\"metric-value\">")
	w.Raw(htmlEscape(s.FirmwareVersion()))
	w.Raw("</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Wi-Fi SSID</span><span class=\"metric-value\">")
	w.Raw(htmlEscape(s.SSID()))
	w.Raw("</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Uptime</span><span class=\"metric-value\">")
	writeDuration(w, s.UptimeMS(time.Unix(c.UnixNow(), 0)))
	w.Raw("</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Free heap</span><span class=\"metric-value\">")
	w.Uint(uint64(s.HeapFree()) / 1024)
	w.Raw(" KB</span></div>")
	w.Raw("</div><div class=\"card\"><h2>Quick links</h2>")
	w.Raw(`<a href="/api/metrics" class="button">Metrics JSON</a>`)
	w.Raw(`<a href="/metrics" class="button">Prometheus</a>`)
	w.Raw(`<a href="/api/system" class="button">System</a>`)
	w.Raw(`<a href="/api/config" class="button">Config</a>`)
	w.Raw("</div></div></body></html>")
}

func writeDashboardPage(w *jsonw.Writer, s *metrics.Snapshot, c Clock) {
	w.Raw("<!DOCTYPE html><html><head><title>tinydash dashboard</title>")
	w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.Raw(pageCSS)
	w.Raw("</head><body><div class=\"container\">")
	w.Raw(pageNav)
	w.Raw("<div class=\"card\"><h1>Live dashboard</h1>")
	_, filtered := s.TemperatureCurve()
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Temperature</span><span class=\"metric-value\" id=\"m-temp\">")
	w.Float1(filtered)
	w.Raw(" &deg;C</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">Battery</span><span class=\"metric-value\" id=\"m-batt\">")
	w.Int(int64(s.BatteryPercent()))
	w.Raw("% (")
	w.Uint(uint64(s.BatteryMV()))
	w.Raw(" mV)</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">FPS</span><span class=\"metric-value\" id=\"m-fps\">")
	w.Float1(float64(s.FPSX10()) / 10)
	w.Raw("</span></div>")
	w.Raw("<div class=\"metric\"><span class=\"metric-label\">RSSI</span><span class=\"metric-value\" id=\"m-rssi\">")
	w.Int(int64(s.RSSI()))
	w.Raw(" dBm</span></div>")
	w.Raw("</div><div class=\"card\"><p>This page refreshes itself from <code>/api/events</code> over server-sent events; without JavaScript enabled it shows the values as of page load.</p></div>")
	w.Raw(`<script>
if (window.EventSource) {
  var es = new EventSource("/api/events");
  es.onmessage = function(ev) {
    try {
      var m = JSON.parse(ev.data);
      var set = function(id, v) { var el = document.getElementById(id); if (el) el.textContent = v; };
      set("m-temp", m.temperature_filtered_c.toFixed(1) + " °C");
      set("m-batt", m.battery_percent + "% (" + m.battery_mv + " mV)");
      set("m-fps", m.fps.toFixed(1));
      set("m-rssi", m.rssi + " dBm");
    } catch (e) {}
  };
}
</script>`)
	w.Raw("</div></body></html>")
}

func writeOTAPage(w *jsonw.Writer, available bool) {
	w.Raw("<!DOCTYPE html><html><head><title>tinydash OTA</title>")
	w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.Raw(pageCSS)
	w.Raw("</head><body><div class=\"container\">")
	w.Raw(pageNav)
	if !available {
		w.Raw("<div class=\"card\"><h1>OTA unavailable</h1>")
		w.Raw("<p>Firmware updates are disabled on this device right now. Check <a href=\"/api/ota/status\">/api/ota/status</a> or try again later.</p></div>")
		w.Raw("</div></body></html>")
		return
	}
	w.Raw("<div class=\"card\"><h1>Firmware update</h1>")
	w.Raw(`<form method="POST" action="/ota/update" enctype="application/octet-stream">`)
	w.Raw(`<input type="file" name="firmware" id="firmware">`)
	w.Raw(`<p><button type="button" class="button" onclick="uploadFirmware()">Upload and install</button></p>`)
	w.Raw("</form>")
	w.Raw(`<pre id="ota-status"></pre>`)
	w.Raw("</div></div>")
	w.Raw(`<script>
function uploadFirmware() {
  var f = document.getElementById("firmware").files[0];
  if (!f) { return; }
  var xhr = new XMLHttpRequest();
  xhr.open("POST", "/ota/update");
  xhr.setRequestHeader("Content-Length", f.size);
  xhr.onload = function() {
    document.getElementById("ota-status").textContent = xhr.status + ": " + xhr.responseText;
  };
  xhr.send(f);
}
</script>`)
	w.Raw("</body></html>")
}

func writeDuration(w *jsonw.Writer, ms int64) {
	secs := ms / 1000
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	w.Uint(uint64(hours))
	w.Raw("h ")
	w.Uint(uint64(minutes))
	w.Raw("m ")
	w.Uint(uint64(seconds))
	w.Raw("s")
}

// htmlEscape escapes the handful of characters that matter inside the
// text nodes these pages interpolate user-controlled strings into
// (SSID, firmware version). Narrow by design, like every other hand-
// rolled scanner in this tree — no html/template import exists anywhere
// in the pack to ground a general escaper, and pulling one in for two
// short strings would contradict the zero-heap convention.
func htmlEscape(s string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '>', '&', '"':
			needsEscape = true
		}
	}
	if !needsEscape {
		return s
	}
	out := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '"':
			out = append(out, "&quot;"...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
