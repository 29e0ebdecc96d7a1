package httpserver

import (
	"strings"
	"testing"
)

func TestHomePageRendersExpectedFields(t *testing.T) {
	snap := newTestSnapshot()
	snap.SetFirmwareVersion("1.2.3")
	snap.SetSSID("office-wifi")
	rt := &Router{}
	PageRoutes(rt, snap, nil)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/"), fakeClock(1010))

	out := string(c.buf)
	if !strings.Contains(out, "Content-Type: text/html") {
		t.Fatalf("expected html content type, got %q", out)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Fatalf("missing firmware version: %q", out)
	}
	if !strings.Contains(out, "office-wifi") {
		t.Fatalf("missing ssid: %q", out)
	}
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Fatalf("missing doctype: %q", out)
	}
}

func TestHomePageEscapesSSID(t *testing.T) {
	snap := newTestSnapshot()
	snap.SetSSID(`<script>alert(1)</script>`)
	rt := &Router{}
	PageRoutes(rt, snap, nil)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/"), fakeClock(1010))

	out := string(c.buf)
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("ssid was not escaped: %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped ssid markup: %q", out)
	}
}

func TestDashboardPageRendersMetrics(t *testing.T) {
	snap := newTestSnapshot()
	rt := &Router{}
	PageRoutes(rt, snap, nil)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/dashboard"), fakeClock(1010))

	out := string(c.buf)
	if !strings.Contains(out, "EventSource") {
		t.Fatalf("expected SSE wiring script: %q", out)
	}
	if !strings.Contains(out, "80%") {
		t.Fatalf("missing battery percent: %q", out)
	}
}

func TestOTAPageShowsUploadFormWhenAvailable(t *testing.T) {
	rt := &Router{}
	PageRoutes(rt, newTestSnapshot(), func() bool { return true })

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/ota"), fakeClock(1010))

	out := string(c.buf)
	if !strings.Contains(out, `action="/ota/update"`) {
		t.Fatalf("expected upload form: %q", out)
	}
	if strings.Contains(out, "OTA unavailable") {
		t.Fatalf("did not expect unavailable variant: %q", out)
	}
}

func TestOTAPageShowsUnavailableVariant(t *testing.T) {
	rt := &Router{}
	PageRoutes(rt, newTestSnapshot(), func() bool { return false })

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/ota"), fakeClock(1010))

	out := string(c.buf)
	if !strings.Contains(out, "OTA unavailable") {
		t.Fatalf("expected unavailable variant: %q", out)
	}
	if strings.Contains(out, `action="/ota/update"`) {
		t.Fatalf("did not expect upload form: %q", out)
	}
}
