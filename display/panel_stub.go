//go:build !tinygo

package display

// Panel is a host-buildable fake with the same exported surface as the
// tinygo driver in panel.go, so UI and server code can be written and
// tested against it without hardware. It records the last window and pixel
// stream instead of driving GPIO.
type Panel struct {
	degraded    bool
	backlightOn bool
	window      struct{ x0, y0, x1, y1 int }

	// LastWritten accumulates every pixel passed to WritePixels since the
	// last ResetCapture call, for assertions in tests.
	LastWritten []Pixel
	WindowCalls int
}

// PanelPins mirrors the tinygo struct's shape so callers can share
// construction code across build tags; fields are unused here.
type PanelPins struct {
	Data      [8]int
	WR, RD, DC, CS, RST, Power, Backlight int
}

// NewPanel returns a fake driver. pins is ignored.
func NewPanel(pins PanelPins) *Panel {
	return &Panel{}
}

func (p *Panel) Degraded() bool { return p.degraded }

// Configure is a no-op; SetDegraded lets tests simulate a failed init.
func (p *Panel) Configure() {}

// SetDegraded forces the degraded flag, for tests exercising degraded-mode
// behavior without a real init failure.
func (p *Panel) SetDegraded(v bool) { p.degraded = v }

func (p *Panel) SetWindow(x0, y0, x1, y1 int) {
	p.window.x0, p.window.y0, p.window.x1, p.window.y1 = x0, y0, x1, y1
	p.WindowCalls++
}

func (p *Panel) WritePixels(pixels []Pixel) {
	p.LastWritten = append(p.LastWritten, pixels...)
}

func (p *Panel) SetBacklight(on bool) { p.backlightOn = on }

// Backlight reports the last value passed to SetBacklight, for tests.
func (p *Panel) Backlight() bool { return p.backlightOn }

// ResetCapture clears recorded pixel writes and window-call counts.
func (p *Panel) ResetCapture() {
	p.LastWritten = p.LastWritten[:0]
	p.WindowCalls = 0
}
