package httpserver

import (
	"time"

	"openenterprise/tinydash/apierr"
	"openenterprise/tinydash/jsonw"
)

// Handler serves one request. now is passed explicitly (rather than each
// handler calling time.Now itself) so handlers are deterministic under
// test.
type Handler func(w *ResponseWriter, r *Request, now Clock)

// Clock is the minimal time source a handler needs.
type Clock interface {
	UnixNow() int64
}

type route struct {
	method string
	// pattern is either a literal path, or a path with a single trailing
	// {param} segment, e.g. "/api/v1/config/".
	pattern  string
	hasParam bool
	handler  Handler
}

// Router dispatches by method and path. Patterns are matched literally
// except for a single trailing {field}-style segment, which is the only
// parameterized route this surface needs (PATCH /api/v1/config/{field}).
type Router struct {
	routes []route
}

// Handle registers a literal-path route.
func (rt *Router) Handle(method, path string, h Handler) {
	rt.routes = append(rt.routes, route{method: method, pattern: path, handler: h})
}

// HandlePrefix registers a route whose path is prefix followed by a
// single free-form segment, bound to Request.PathParam.
func (rt *Router) HandlePrefix(method, prefix string, h Handler) {
	rt.routes = append(rt.routes, route{method: method, pattern: prefix, hasParam: true, handler: h})
}

// Dispatch finds the first matching route and serves it, or writes a 404
// apierr body.
func (rt *Router) Dispatch(w *ResponseWriter, r *Request, now Clock) {
	w.SetAcceptsGzip(clientAcceptsGzip(r))
	for _, rte := range rt.routes {
		if rte.method != r.Method {
			continue
		}
		if rte.hasParam {
			if len(r.Path) > len(rte.pattern) && r.Path[:len(rte.pattern)] == rte.pattern {
				r.PathParam = r.Path[len(rte.pattern):]
				rte.handler(w, r, now)
				return
			}
			continue
		}
		if r.Path == rte.pattern {
			rte.handler(w, r, now)
			return
		}
	}
	WriteError(w, apierr.Error{Code: apierr.CodeNotFound, Message: "no such route"}, now)
}

// WriteError serializes an apierr.Error as the JSON body with the
// matching status code.
func WriteError(w *ResponseWriter, e apierr.Error, now Clock) {
	e.Timestamp = time.Unix(now.UnixNow(), 0)
	e.RequestID = apierr.NextRequestID()
	w.SetStatus(e.HTTPStatus())
	w.SetHeader("Content-Type", "application/json")
	var buf [256]byte
	jw := jsonw.NewWriter(buf[:])
	e.WriteJSON(jw)
	w.Write(jw.Bytes())
}
