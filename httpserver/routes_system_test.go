package httpserver

import (
	"strings"
	"testing"
)

func TestSystemRoute(t *testing.T) {
	rt := &Router{}
	snap := newTestSnapshot()
	snap.SetFirmwareVersion("1.2.3")
	snap.SetSSID("home-wifi")
	SystemRoutes(rt, snap, nil)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/api/system"), fakeClock(1010))
	out := string(c.buf)
	if !strings.Contains(out, `"version":"1.2.3"`) {
		t.Fatalf("missing version: %q", out)
	}
	if !strings.Contains(out, `"ssid":"home-wifi"`) {
		t.Fatalf("missing ssid: %q", out)
	}
}

func TestRestartRouteRespondsImmediately(t *testing.T) {
	rt := &Router{}
	called := make(chan struct{}, 1)
	SystemRoutes(rt, newTestSnapshot(), func() { called <- struct{}{} })

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("POST", "/api/restart"), fakeClock(0))
	if !strings.Contains(string(c.buf), `"status":"restarting"`) {
		t.Fatalf("got %q", c.buf)
	}
}
