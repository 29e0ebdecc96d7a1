// Package input implements debounced button classification: two active-low
// lines polled every 20ms, each producing Press/Click/LongPress/Release
// events. The state machine itself is hardware-free so it can be driven by
// a fake clock and fake pin level in tests; button_hw.go wires the real
// GPIOs on top of it.
package input

import "time"

// Event is what a Button's Poll call reports for this tick.
type Event uint8

const (
	// None means nothing happened this tick.
	None Event = iota
	// Press fires once, on the debounced falling edge.
	Press
	// Click fires on release if the press was held less than LongPressThreshold.
	Click
	// LongPress fires once, as soon as a held press crosses LongPressThreshold.
	LongPress
	// Release fires on release if LongPress already fired for this press.
	Release
)

// String names an Event for logging.
func (e Event) String() string {
	switch e {
	case Press:
		return "press"
	case Click:
		return "click"
	case LongPress:
		return "longpress"
	case Release:
		return "release"
	default:
		return "none"
	}
}

const (
	// DebounceThreshold ignores transitions closer together than this.
	DebounceThreshold = 50 * time.Millisecond
	// LongPressThreshold is the minimum held duration that emits LongPress
	// instead of Click. A press held exactly this long classifies as
	// LongPress, not Click.
	LongPressThreshold = 1000 * time.Millisecond
	// PollInterval is the rate Poll is expected to be called at.
	PollInterval = 20 * time.Millisecond
)

// Button is a debounced active-low input line's classification state.
type Button struct {
	pressed          bool
	pressStart       time.Time
	lastTransition   time.Time
	longPressEmitted bool
	haveTransitioned bool
}

// Poll advances the state machine given the current raw (debounced-at-the-
// electrical-level) pin reading and the current time, and returns the
// event, if any, this tick produces. down is true when the active-low line
// reads asserted (pressed).
func (b *Button) Poll(down bool, now time.Time) Event {
	if down != b.pressed {
		if b.haveTransitioned && now.Sub(b.lastTransition) < DebounceThreshold {
			return None
		}
		b.lastTransition = now
		b.haveTransitioned = true
		b.pressed = down

		if down {
			b.pressStart = now
			b.longPressEmitted = false
			return Press
		}

		held := now.Sub(b.pressStart)
		if b.longPressEmitted {
			return Release
		}
		if held < LongPressThreshold {
			return Click
		}
		// Released after crossing the threshold without a poll catching it
		// mid-press; still counts as having long-pressed, not clicked.
		return Release
	}

	if down && !b.longPressEmitted && now.Sub(b.pressStart) >= LongPressThreshold {
		b.longPressEmitted = true
		return LongPress
	}

	return None
}
