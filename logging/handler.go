package logging

import (
	"context"
	"io"
	"log/slog"
)

// Broadcaster is the narrow surface Handler needs from the telnet
// listener: push a freshly formatted line out to every connected socket.
// Implemented by (tinygo) Telnet; tests and host builds can pass nil.
type Broadcaster interface {
	Broadcast(line string)
}

// Handler is a slog.Handler that writes to an underlying text handler,
// the same way console output always has, and also records every record
// into a Ring and forwards it to a Broadcaster — generalizing
// telemetry.SlogHandler's "write to console, also queue to telemetry"
// shape to "write to console, also queue to ring, also fan out to
// telnet".
type Handler struct {
	text        slog.Handler
	ring        *Ring
	broadcaster Broadcaster
	attrs       []slog.Attr
	group       string
}

// NewHandler wraps w in a slog.TextHandler for console output and feeds
// every record into ring and (if non-nil) broadcaster.
func NewHandler(w io.Writer, ring *Ring, broadcaster Broadcaster, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		text:        slog.NewTextHandler(w, opts),
		ring:        ring,
		broadcaster: broadcaster,
	}
}

// Enabled reports whether the underlying text handler handles level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

// Handle writes r to the console handler, pushes it onto the ring and
// broadcasts the formatted line to telnet subscribers.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	err := h.text.Handle(ctx, r)

	line := formatLine(h.group, h.attrs, r)
	if h.ring != nil {
		h.ring.Push(r.Time, r.Level, line)
	}
	if h.broadcaster != nil {
		h.broadcaster.Broadcast(line)
	}
	return err
}

// WithAttrs returns a new Handler with attrs added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return &Handler{
		text:        h.text.WithAttrs(attrs),
		ring:        h.ring,
		broadcaster: h.broadcaster,
		attrs:       merged,
		group:       h.group,
	}
}

// WithGroup returns a new Handler scoped under name.
func (h *Handler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &Handler{
		text:        h.text.WithGroup(name),
		ring:        h.ring,
		broadcaster: h.broadcaster,
		attrs:       h.attrs,
		group:       group,
	}
}

// formatLine builds a compact "LEVEL msg key=val ..." line the same way
// telemetry.buildTelemetryMessage assembles its OTLP body, but into a
// returned string rather than a shared scratch buffer: the ring and
// telnet broadcaster each need their own independent copy, so the
// allocation-per-log-line tradeoff (acceptable off the hot render path)
// replaces telemetry's single preallocated buffer.
func formatLine(group string, attrs []slog.Attr, r slog.Record) string {
	line := r.Level.String() + " "
	if group != "" {
		line += group + ": "
	}
	line += r.Message

	for _, a := range attrs {
		line += " " + a.Key + "=" + a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		line += " " + a.Key + "=" + a.Value.String()
		return true
	})
	return line
}
