package httpserver

import (
	"strings"
	"testing"

	"openenterprise/tinydash/config"
)

func TestConfigGetRedactsPassword(t *testing.T) {
	store := &config.MemStore{}
	cfg := config.Defaults()
	cfg.Password = "supersecret"
	config.Save(store, cfg)

	rt := &Router{}
	current := func() config.Config { return cfg }
	ConfigRoutes(rt, store, current, nil)

	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/api/config"), fakeClock(0))
	out := string(c.buf)
	if strings.Contains(out, "supersecret") {
		t.Fatalf("password leaked: %q", out)
	}
	if !strings.Contains(out, `"password":"********"`) {
		t.Fatalf("missing redacted password: %q", out)
	}
}

func TestConfigPostPersistsAndInvokesOnChange(t *testing.T) {
	store := &config.MemStore{}
	cfg := config.Defaults()
	var changed config.Config
	var gotChange bool
	rt := &Router{}
	ConfigRoutes(rt, store, func() config.Config { return cfg }, func(c config.Config) {
		changed = c
		gotChange = true
	})

	body := config.Serialize(config.Defaults())
	r := newTestRequest("POST", "/api/config")
	r.Body = body
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), r, fakeClock(0))

	if !gotChange {
		t.Fatal("expected onChange to be invoked")
	}
	if changed.Theme != config.ThemeDark {
		t.Fatalf("got %v", changed.Theme)
	}
	if !strings.Contains(string(c.buf), `"status":"ok"`) {
		t.Fatalf("got %q", c.buf)
	}
}

func TestConfigPatchUpdatesSingleField(t *testing.T) {
	store := &config.MemStore{}
	cfg := config.Defaults()
	rt := &Router{}
	ConfigRoutes(rt, store, func() config.Config { return cfg }, func(c config.Config) { cfg = c })

	r := newTestRequest("PATCH", "/api/v1/config/brightness")
	r.Body = []byte("128")
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), r, fakeClock(0))

	if cfg.Brightness != 128 {
		t.Fatalf("expected brightness 128, got %d", cfg.Brightness)
	}
}

func TestConfigPatchUnknownFieldReturnsBadRequest(t *testing.T) {
	store := &config.MemStore{}
	cfg := config.Defaults()
	rt := &Router{}
	ConfigRoutes(rt, store, func() config.Config { return cfg }, nil)

	r := newTestRequest("PATCH", "/api/v1/config/bogus")
	r.Body = []byte(`"x"`)
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), r, fakeClock(0))
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 400") {
		t.Fatalf("got %q", c.buf)
	}
}
