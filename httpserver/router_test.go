package httpserver

import (
	"strings"
	"testing"
)

func TestRouterDispatchesLiteralRoute(t *testing.T) {
	rt := &Router{}
	called := false
	rt.Handle("GET", "/api/system", func(w *ResponseWriter, r *Request, c Clock) {
		called = true
	})
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/api/system"), fakeClock(0))
	if !called {
		t.Fatal("expected handler to be called")
	}
}

func TestRouterDispatch404ForUnknownPath(t *testing.T) {
	rt := &Router{}
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("GET", "/nope"), fakeClock(1000))
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 404") {
		t.Fatalf("expected 404, got %q", c.buf)
	}
	if !strings.Contains(string(c.buf), `"code"`) {
		t.Fatalf("expected apierr JSON body, got %q", c.buf)
	}
}

func TestRouterHandlePrefixBindsPathParam(t *testing.T) {
	rt := &Router{}
	var gotParam string
	rt.HandlePrefix("PATCH", "/api/v1/config/", func(w *ResponseWriter, r *Request, c Clock) {
		gotParam = r.PathParam
	})
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("PATCH", "/api/v1/config/brightness"), fakeClock(0))
	if gotParam != "brightness" {
		t.Fatalf("got %q", gotParam)
	}
}

func TestRouterDispatchWrongMethodFallsThroughTo404(t *testing.T) {
	rt := &Router{}
	rt.Handle("GET", "/api/system", func(w *ResponseWriter, r *Request, c Clock) {})
	c := &fakeConn{}
	rt.Dispatch(NewResponseWriter(c), newTestRequest("POST", "/api/system"), fakeClock(0))
	if !strings.HasPrefix(string(c.buf), "HTTP/1.1 404") {
		t.Fatalf("got %q", c.buf)
	}
}
