//go:build tinygo

package display

import (
	"machine"
	"time"
)

// ST7789 command set. Names and values follow the controller datasheet; see
// the adafruit/ili9488 register table this was cross-checked against.
const (
	cmdNOP      = 0x00
	cmdSWRESET  = 0x01
	cmdRDDID    = 0x04
	cmdSLPOUT   = 0x11
	cmdINVON    = 0x21
	cmdDISPON   = 0x29
	cmdCASET    = 0x2A
	cmdRASET    = 0x2B
	cmdRAMWR    = 0x2C
	cmdMADCTL   = 0x36
	cmdCOLMOD   = 0x3A
	cmdPORCTRL  = 0xB2
	cmdGCTRL    = 0xB7
	cmdVCOMS    = 0xBB
	cmdLCMCTRL  = 0xC0
	cmdVDVVRHEN = 0xC2
	cmdVRHS     = 0xC3
	cmdVDVS     = 0xC4
	cmdFRCTRL2  = 0xC6
	cmdPWCTRL1  = 0xD0
)

// panelOffsetX and panelOffsetY are the reference board's GRAM offset: the
// 320x170 visible window sits inside the controller's 320x480 addressable
// GRAM starting at this origin.
const (
	panelOffsetX = 10
	panelOffsetY = 36
)

// PanelPins names every GPIO the parallel bus and control lines use. All
// assignments are fixed per the target board; there is no runtime pin
// discovery.
type PanelPins struct {
	Data      [8]machine.Pin // DB0..DB7
	WR        machine.Pin
	RD        machine.Pin
	DC        machine.Pin
	CS        machine.Pin
	RST       machine.Pin
	Power     machine.Pin
	Backlight machine.Pin
}

// Panel drives an ST7789 controller over a bitbanged 8-bit parallel (8080)
// bus. It never returns an error from Configure: a failed init self-check
// marks the driver degraded (reported by Degraded, which the caller logs)
// and the driver carries on, since a half-working
// display beats a dark one during field debugging.
type Panel struct {
	pins     PanelPins
	degraded bool
	window   struct{ x0, y0, x1, y1 int }
}

// NewPanel returns a driver bound to pins. Configure must be called before
// use.
func NewPanel(pins PanelPins) *Panel {
	return &Panel{pins: pins}
}

// Degraded reports whether initialization hit a failed step.
func (p *Panel) Degraded() bool { return p.degraded }

// Configure runs the ordered init sequence from the panel's datasheet-driven
// bring-up procedure: power and backlight, hardware reset, software reset,
// sleep-out, pixel format and timing registers, invert-on, display-on, and
// a one-time GRAM clear so the visible window never shows uninitialized
// pixels when it is first addressed.
func (p *Panel) Configure() {
	for _, pin := range p.pins.Data {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	for _, pin := range []machine.Pin{p.pins.WR, p.pins.DC, p.pins.CS, p.pins.RST, p.pins.Power, p.pins.Backlight} {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	p.pins.RD.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pins.RD.High()
	p.pins.CS.High()
	p.pins.WR.High()

	p.pins.Power.High()
	time.Sleep(100 * time.Millisecond)

	p.pins.Backlight.High()

	p.pins.RST.Low()
	time.Sleep(10 * time.Millisecond)
	p.pins.RST.High()
	time.Sleep(120 * time.Millisecond)

	p.pins.CS.Low()

	p.sendCommand(cmdSWRESET)
	time.Sleep(150 * time.Millisecond)

	p.sendCommand(cmdSLPOUT)
	time.Sleep(120 * time.Millisecond)

	p.sendCommand(cmdMADCTL, 0x00)
	p.sendCommand(cmdCOLMOD, 0x55) // 16-bit RGB565
	p.sendCommand(cmdPORCTRL, 0x0C, 0x0C, 0x00, 0x33, 0x33)
	p.sendCommand(cmdGCTRL, 0x35)
	p.sendCommand(cmdVCOMS, 0x28)
	p.sendCommand(cmdLCMCTRL, 0x2C)
	p.sendCommand(cmdVDVVRHEN, 0x01)
	p.sendCommand(cmdVRHS, 0x0B)
	p.sendCommand(cmdVDVS, 0x20)
	p.sendCommand(cmdFRCTRL2, 0x0F)
	p.sendCommand(cmdPWCTRL1, 0xA4, 0xA1)

	p.sendCommand(cmdINVON)
	p.sendCommand(cmdDISPON)
	time.Sleep(20 * time.Millisecond)

	// Clear the full addressable GRAM, not just the visible window: the
	// physical panel is windowed into a larger controller buffer, and
	// whatever garbage sits outside the window at boot becomes visible the
	// first time the window shifts.
	p.setWindowRaw(0, 0, 319, 479)
	p.sendCommand(cmdRAMWR)
	var zero [2]byte
	for i := 0; i < 320*480; i++ {
		p.writeByte(zero[0])
		p.writeByte(zero[1])
	}

	id := p.readID()
	if id == 0 {
		p.degraded = true
	}

	p.pins.CS.High()
}

// SetWindow opens an addressing window in application coordinates; the
// board's fixed GRAM offset is applied before the controller sees it.
func (p *Panel) SetWindow(x0, y0, x1, y1 int) {
	p.setWindowRaw(x0+panelOffsetX, y0+panelOffsetY, x1+panelOffsetX, y1+panelOffsetY)
}

func (p *Panel) setWindowRaw(x0, y0, x1, y1 int) {
	if p.window.x0 == x0 && p.window.y0 == y0 && p.window.x1 == x1 && p.window.y1 == y1 {
		return
	}
	p.window.x0, p.window.y0, p.window.x1, p.window.y1 = x0, y0, x1, y1
	p.pins.CS.Low()
	p.sendCommand(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	p.sendCommand(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
}

// WritePixels streams pixel data into the currently open window. The caller
// must have called SetWindow first; a write beyond the window's pixel count
// is the caller's responsibility to avoid.
func (p *Panel) WritePixels(pixels []Pixel) {
	p.pins.CS.Low()
	p.sendCommand(cmdRAMWR)
	for _, px := range pixels {
		p.writeByte(byte(px >> 8))
		p.writeByte(byte(px))
	}
	p.pins.CS.High()
}

// SetBacklight drives the backlight pin.
func (p *Panel) SetBacklight(on bool) {
	if on {
		p.pins.Backlight.High()
	} else {
		p.pins.Backlight.Low()
	}
}

// sendCommand writes a command byte with DC low, then any argument bytes
// with DC high. DC and WR are never assumed to hold their prior level
// across calls, matching the controller's per-transition strobe contract.
func (p *Panel) sendCommand(cmd byte, args ...byte) {
	p.pins.DC.Low()
	p.writeByte(cmd)
	p.pins.DC.High()
	for _, a := range args {
		p.writeByte(a)
	}
}

func (p *Panel) writeByte(b byte) {
	for i, pin := range p.pins.Data {
		if b&(1<<uint(i)) != 0 {
			pin.High()
		} else {
			pin.Low()
		}
	}
	p.pins.WR.Low()
	p.pins.WR.High()
}

// readID reads back the controller's display identification register as a
// cheap init self-check: a zero response means the bus is not actually
// talking to a controller, and the driver marks itself degraded rather than
// pretending the screen will show anything useful.
func (p *Panel) readID() uint32 {
	p.pins.DC.Low()
	p.writeByte(cmdRDDID)
	p.pins.DC.High()

	for _, pin := range p.pins.Data {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	}
	defer func() {
		for _, pin := range p.pins.Data {
			pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		}
	}()

	p.strobeRead() // dummy byte per datasheet read timing, discarded

	var id uint32
	for i := 0; i < 3; i++ {
		id = id<<8 | uint32(p.strobeRead())
	}
	return id
}

func (p *Panel) strobeRead() byte {
	p.pins.RD.Low()
	time.Sleep(400 * time.Nanosecond)
	var b byte
	for i, pin := range p.pins.Data {
		if pin.Get() {
			b |= 1 << uint(i)
		}
	}
	p.pins.RD.High()
	time.Sleep(90 * time.Nanosecond)
	return b
}
