package display

import (
	"log/slog"
	"sync/atomic"
)

// Width and Height are the panel's addressable pixel dimensions.
const (
	Width  = 320
	Height = 170
)

// Allocator places a pixel buffer in external memory. Implementations
// behind the tinygo build tag request PSRAM; Alloc returns ok=false when
// the platform has none or the request fails, so the caller can fall back
// to internal RAM.
type Allocator interface {
	Alloc(n int) (buf []Pixel, ok bool)
}

// Framebuffer owns a double-buffered pixel array. Drawing primitives mutate
// the back buffer only; Swap() makes the just-drawn buffer the one Flush
// reads from. Out-of-bounds writes are silent no-ops everywhere in this
// package, matching the hardware driver's own tolerance for bad coordinates.
type Framebuffer struct {
	buffers [2][]Pixel
	// drawIdx is toggled atomically by Swap so a concurrent flush always
	// observes one stable buffer index.
	drawIdx atomic.Uint32
	psram   bool
}

// New allocates a framebuffer. alloc, when non-nil, is tried first to place
// each buffer in PSRAM; a nil alloc or an allocation failure falls back to
// plain Go slices (internal RAM). An allocation failure is logged as a
// warning, never an error — a framebuffer without PSRAM is slower, not
// broken; a nil alloc falls back without logging.
func New(logger *slog.Logger, alloc Allocator) *Framebuffer {
	fb := &Framebuffer{}
	allInPSRAM := alloc != nil
	for i := range fb.buffers {
		if alloc != nil {
			if buf, ok := alloc.Alloc(Width * Height); ok {
				fb.buffers[i] = buf
				continue
			}
			allInPSRAM = false
		}
		fb.buffers[i] = make([]Pixel, Width*Height)
	}
	fb.psram = allInPSRAM
	if alloc != nil && !allInPSRAM && logger != nil {
		logger.Warn("display:psram-unavailable", slog.String("fallback", "internal-ram"))
	}
	return fb
}

// InPSRAM reports whether both buffers were placed in external PSRAM.
func (fb *Framebuffer) InPSRAM() bool { return fb.psram }

func (fb *Framebuffer) back() []Pixel {
	return fb.buffers[fb.drawIdx.Load()&1]
}

func (fb *Framebuffer) front() []Pixel {
	return fb.buffers[(fb.drawIdx.Load()+1)&1]
}

// Clear fills the entire back buffer with color.
func (fb *Framebuffer) Clear(color Pixel) {
	buf := fb.back()
	for i := range buf {
		buf[i] = color
	}
}

// SetPixel writes a single pixel into the back buffer. Coordinates outside
// [0,Width)x[0,Height) are silently ignored.
func (fb *Framebuffer) SetPixel(x, y int, color Pixel) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	fb.back()[y*Width+x] = color
}

// FillRect fills a w x h rectangle at (x,y) in the back buffer, clipped to
// the framebuffer bounds. Negative w/h or fully out-of-range rectangles are
// no-ops. A full-width rectangle is filled as one contiguous row span.
func (fb *Framebuffer) FillRect(x, y, w, h int, color Pixel) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0, x1, y1 := clip(x, y, w, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	buf := fb.back()
	for row := y0; row < y1; row++ {
		base := row * Width
		span := buf[base+x0 : base+x1]
		for i := range span {
			span[i] = color
		}
	}
}

// clip clamps a requested rectangle to the framebuffer bounds, returning a
// half-open [x0,x1)x[y0,y1) range.
func clip(x, y, w, h int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > Width {
		x1 = Width
	}
	if y1 > Height {
		y1 = Height
	}
	return x0, y0, x1, y1
}

// GetDrawBuffer returns the mutable back buffer for direct primitive access.
func (fb *Framebuffer) GetDrawBuffer() []Pixel {
	return fb.back()
}

// Swap flips which buffer is the draw target. It is a single atomic
// increment: the flushing goroutine's next Load of drawIdx happens-after
// every write the drawing goroutine issued before the Swap, so the flusher
// never observes a partially drawn buffer.
func (fb *Framebuffer) Swap() {
	fb.drawIdx.Add(1)
}

// GetRegion copies out a w x h block of pixels starting at (x,y) from the
// front (flush-stable) buffer. Regions outside bounds are clipped; a
// fully out-of-range request returns nil.
func (fb *Framebuffer) GetRegion(x, y, w, h int) []Pixel {
	if w <= 0 || h <= 0 {
		return nil
	}
	x0, y0, x1, y1 := clip(x, y, w, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	out := make([]Pixel, 0, (x1-x0)*(y1-y0))
	buf := fb.front()
	for row := y0; row < y1; row++ {
		base := row * Width
		out = append(out, buf[base+x0:base+x1]...)
	}
	return out
}
