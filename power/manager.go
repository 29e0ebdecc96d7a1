// Package power implements the display power state machine: Active,
// Dimmed, PowerSave and Sleep, each with its own brightness level and
// display refresh period, driven by an activity timer and by battery
// percentage crossing a hysteresis band.
package power

import "time"

// State is one of the four display power states.
type State uint8

const (
	Active State = iota
	Dimmed
	PowerSave
	Sleep
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Dimmed:
		return "dimmed"
	case PowerSave:
		return "powersave"
	case Sleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// Level is the brightness percentage and display refresh period a state
// maps to.
type Level struct {
	BrightnessPercent int
	RefreshPeriod     time.Duration
}

// DefaultLevels are the default per-state levels: 100/30/10/0% brightness
// and 33/50/100/1000ms refresh periods.
var DefaultLevels = map[State]Level{
	Active:    {BrightnessPercent: 100, RefreshPeriod: 33 * time.Millisecond},
	Dimmed:    {BrightnessPercent: 30, RefreshPeriod: 50 * time.Millisecond},
	PowerSave: {BrightnessPercent: 10, RefreshPeriod: 100 * time.Millisecond},
	Sleep:     {BrightnessPercent: 0, RefreshPeriod: 1000 * time.Millisecond},
}

const (
	// DefaultStartupGrace is how long after boot Sleep is forbidden, so a
	// slow network/OTA bring-up never leaves the screen dark.
	DefaultStartupGrace = 30 * time.Second

	// DefaultActiveTimeout is how long without activity before leaving
	// Active for Dimmed.
	DefaultActiveTimeout = 15 * time.Second
	// DefaultDimmedTimeout is how long in Dimmed without activity before
	// dropping to PowerSave.
	DefaultDimmedTimeout = 60 * time.Second
	// DefaultPowerSaveTimeout is how long in PowerSave without activity
	// before dropping to Sleep.
	DefaultPowerSaveTimeout = 5 * time.Minute

	// BatteryHysteresisPercent is the band a battery-driven downgrade must
	// clear before the manager will upgrade back, so hovering right at a
	// threshold does not chatter between states.
	BatteryHysteresisPercent = 10
	// LowBatteryThreshold triggers a forced drop to PowerSave.
	LowBatteryThreshold = 20
)

// Manager tracks the current power state and the timers/levels that drive
// transitions. It has no goroutine of its own; Tick is called by the UI
// render loop every period.
type Manager struct {
	Levels map[State]Level

	ActiveTimeout    time.Duration
	DimmedTimeout    time.Duration
	PowerSaveTimeout time.Duration
	StartupGrace     time.Duration

	state       State
	bootTime    time.Time
	lastActive  time.Time
	batteryLow  bool
	initialized bool
}

// NewManager builds a Manager already in Active, with boot/activity time
// both set to now.
func NewManager(now time.Time) *Manager {
	return &Manager{
		Levels:           DefaultLevels,
		ActiveTimeout:    DefaultActiveTimeout,
		DimmedTimeout:    DefaultDimmedTimeout,
		PowerSaveTimeout: DefaultPowerSaveTimeout,
		StartupGrace:     DefaultStartupGrace,
		state:            Active,
		bootTime:         now,
		lastActive:       now,
		initialized:      true,
	}
}

// State returns the current power state.
func (m *Manager) State() State { return m.state }

// Level returns the brightness/refresh-period pair for the current state.
func (m *Manager) Level() Level { return m.Levels[m.state] }

// NotifyActivity resets the idle timer and forces Active, per spec §4.9:
// "Activity ... resets the timer and forces Active."
func (m *Manager) NotifyActivity(now time.Time) {
	m.lastActive = now
	m.state = Active
}

// NotifyBattery reports the current battery percentage. Crossing below
// LowBatteryThreshold forces PowerSave (unless already in the deeper
// Sleep); recovering requires clearing the threshold by
// BatteryHysteresisPercent before Tick will let the idle timers run the
// state back up, so a battery hovering at the line does not flap.
func (m *Manager) NotifyBattery(percent int8) {
	if percent < LowBatteryThreshold {
		m.batteryLow = true
		if m.state == Active || m.state == Dimmed {
			m.state = PowerSave
		}
		return
	}
	if int(percent) >= LowBatteryThreshold+BatteryHysteresisPercent {
		m.batteryLow = false
	}
}

// Tick advances the idle-timeout state machine. During the startup grace
// window (measured from the Manager's construction time) Sleep is never
// entered, no matter how long the idle timers have run.
func (m *Manager) Tick(now time.Time) State {
	idle := now.Sub(m.lastActive)
	inGrace := now.Sub(m.bootTime) < m.StartupGrace

	if m.batteryLow {
		if m.state == Active || m.state == Dimmed {
			m.state = PowerSave
		}
	}

	// The timeouts are cumulative, so one Tick after a long idle gap steps
	// through every threshold already crossed. Only NotifyActivity leaves
	// Sleep.
	if m.state == Active && idle >= m.ActiveTimeout {
		m.state = Dimmed
	}
	if m.state == Dimmed && idle >= m.ActiveTimeout+m.DimmedTimeout {
		m.state = PowerSave
	}
	if m.state == PowerSave && !m.batteryLow && !inGrace && idle >= m.ActiveTimeout+m.DimmedTimeout+m.PowerSaveTimeout {
		m.state = Sleep
	}

	if inGrace && m.state == Sleep {
		m.state = PowerSave
	}

	return m.state
}
