package httpserver

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"openenterprise/tinydash/logging"
)

func TestLogRoutesReturnsRecentEntriesOldestFirst(t *testing.T) {
	rt := &Router{}
	ring := logging.NewRing(10)
	base := time.Unix(1700000000, 0)
	ring.Push(base, slog.LevelInfo, "booted")
	ring.Push(base.Add(time.Second), slog.LevelWarn, "low battery")
	LogRoutes(rt, ring)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/api/logs/recent"), fakeClock(0))
	out := string(c.buf)

	if !strings.Contains(out, `"message":"booted"`) {
		t.Fatalf("missing first entry: %q", out)
	}
	if !strings.Contains(out, `"message":"low battery"`) {
		t.Fatalf("missing second entry: %q", out)
	}
	if strings.Index(out, "booted") > strings.Index(out, "low battery") {
		t.Fatalf("expected oldest-first order, got %q", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("missing level: %q", out)
	}
}

func TestLogRoutesHonorsCountParam(t *testing.T) {
	rt := &Router{}
	ring := logging.NewRing(10)
	base := time.Unix(0, 0)
	for _, m := range []string{"1", "2", "3"} {
		ring.Push(base, slog.LevelInfo, m)
	}
	LogRoutes(rt, ring)

	req := newTestRequest("GET", "/api/logs/recent")
	req.Query = "count=1"

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), req, fakeClock(0))
	out := string(c.buf)

	if strings.Contains(out, `"message":"1"`) || strings.Contains(out, `"message":"2"`) {
		t.Fatalf("expected only the last entry, got %q", out)
	}
	if !strings.Contains(out, `"message":"3"`) {
		t.Fatalf("missing last entry: %q", out)
	}
}

func TestLogRoutesEmptyRing(t *testing.T) {
	rt := &Router{}
	LogRoutes(rt, logging.NewRing(10))

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/api/logs/recent"), fakeClock(0))
	if !strings.Contains(string(c.buf), "[]") {
		t.Fatalf("expected empty array, got %q", c.buf)
	}
}
