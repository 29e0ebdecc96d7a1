//go:build tinygo

package input

import (
	"machine"
	"time"
)

// Pins are the two active-low button GPIOs, named directly as
// machine.Pin fields rather than wrapped in an abstraction layer.
type Pins struct {
	Button1 machine.Pin
	Button2 machine.Pin
}

// Configure sets both lines to pulled-up inputs, so an unpressed button
// reads high and a press pulls the line low.
func (p Pins) Configure() {
	p.Button1.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	p.Button2.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

// PollHardware reads both pins and drives the Manager's state machine.
func (m *Manager) PollHardware(pins Pins) Action {
	return m.Poll(!pins.Button1.Get(), !pins.Button2.Get(), time.Now())
}
