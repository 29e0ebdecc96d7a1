package input

import "time"

// Action is what a fully classified button event means to the rest of the
// system, after the raw Event -> screen-navigation mapping from §4.8.
type Action uint8

const (
	// NoAction means the tick produced nothing actionable.
	NoAction Action = iota
	// PreviousScreen is button 1's click mapping.
	PreviousScreen
	// NextScreen is button 2's click mapping.
	NextScreen
	// MenuActivate is the long-press mapping, currently stubbed.
	MenuActivate
)

// Manager owns the two physical buttons and maps their raw events to
// carousel actions, while reporting every event (including Press/Release)
// as activity so the power manager's timer can be reset.
type Manager struct {
	Button1 Button
	Button2 Button

	// OnActivity is invoked for every non-None event from either button,
	// before the action mapping below. May be nil.
	OnActivity func()
}

// Poll advances both buttons and returns the action, if any, this tick's
// events map to. button1Down/button2Down are the current active-low raw
// readings.
func (m *Manager) Poll(button1Down, button2Down bool, now time.Time) Action {
	e1 := m.Button1.Poll(button1Down, now)
	e2 := m.Button2.Poll(button2Down, now)

	if e1 != None && m.OnActivity != nil {
		m.OnActivity()
	}
	if e2 != None && m.OnActivity != nil {
		m.OnActivity()
	}

	switch e1 {
	case Click:
		return PreviousScreen
	case LongPress:
		return MenuActivate
	}
	switch e2 {
	case Click:
		return NextScreen
	case LongPress:
		return MenuActivate
	}
	return NoAction
}
