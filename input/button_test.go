package input

import (
	"testing"
	"time"
)

func TestPressEmitsOnce(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	if ev := b.Poll(true, t0); ev != Press {
		t.Fatalf("expected Press, got %v", ev)
	}
	if ev := b.Poll(true, t0.Add(PollInterval)); ev != None {
		t.Fatalf("expected None while still held, got %v", ev)
	}
}

func TestClickAt999ms(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	b.Poll(true, t0)
	ev := b.Poll(false, t0.Add(999*time.Millisecond))
	if ev != Click {
		t.Fatalf("expected Click at 999ms, got %v", ev)
	}
}

func TestLongPressAt1000ms(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	b.Poll(true, t0)
	ev := b.Poll(true, t0.Add(1000*time.Millisecond))
	if ev != LongPress {
		t.Fatalf("expected LongPress at 1000ms, got %v", ev)
	}
}

func TestReleaseAfterLongPressEmitsReleaseNotClick(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	b.Poll(true, t0)
	if ev := b.Poll(true, t0.Add(1000*time.Millisecond)); ev != LongPress {
		t.Fatalf("expected LongPress, got %v", ev)
	}
	if ev := b.Poll(false, t0.Add(1200*time.Millisecond)); ev != Release {
		t.Fatalf("expected Release after a long press, got %v", ev)
	}
}

func TestDebounceIgnoresFastTransitions(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	if ev := b.Poll(true, t0); ev != Press {
		t.Fatalf("expected Press, got %v", ev)
	}
	// Release 10ms later is within the 50ms debounce window.
	if ev := b.Poll(false, t0.Add(10*time.Millisecond)); ev != None {
		t.Fatalf("expected None, transition inside debounce window, got %v", ev)
	}
	// The button's internal state must still show it as pressed, since the
	// debounced-out transition never took effect.
	if ev := b.Poll(true, t0.Add(20*time.Millisecond)); ev != None {
		t.Fatalf("expected None, still within debounce window and no level change, got %v", ev)
	}
}

func TestDebounceAllowsTransitionAfterWindow(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	b.Poll(true, t0)
	ev := b.Poll(false, t0.Add(DebounceThreshold))
	if ev != Click {
		t.Fatalf("expected Click once debounce window has elapsed, got %v", ev)
	}
}

func TestManagerMapsClicksToScreenActions(t *testing.T) {
	var m Manager
	t0 := time.Unix(0, 0)

	m.Poll(true, false, t0)
	action := m.Poll(false, false, t0.Add(100*time.Millisecond))
	if action != PreviousScreen {
		t.Fatalf("expected PreviousScreen from button1 click, got %v", action)
	}

	m.Poll(false, true, t0.Add(200*time.Millisecond))
	action = m.Poll(false, false, t0.Add(300*time.Millisecond))
	if action != NextScreen {
		t.Fatalf("expected NextScreen from button2 click, got %v", action)
	}
}

func TestManagerInvokesOnActivityForEveryEvent(t *testing.T) {
	count := 0
	m := Manager{OnActivity: func() { count++ }}
	t0 := time.Unix(0, 0)
	m.Poll(true, false, t0)                            // Press
	m.Poll(false, false, t0.Add(100*time.Millisecond)) // Click
	if count != 2 {
		t.Fatalf("expected 2 activity callbacks, got %d", count)
	}
}

func TestManagerLongPressMapsToMenuActivate(t *testing.T) {
	var m Manager
	t0 := time.Unix(0, 0)
	m.Poll(true, false, t0)
	action := m.Poll(true, false, t0.Add(1000*time.Millisecond))
	if action != MenuActivate {
		t.Fatalf("expected MenuActivate, got %v", action)
	}
}

// Screen-navigation scenario: button-2 clicks at t=0, 200, 400, 600ms
// with debounce=50ms and N=4 screens should leave the carousel back at
// screen 0 after 4 clicks.
func TestFourClicksWrapToScreenZero(t *testing.T) {
	var b Button
	t0 := time.Unix(0, 0)
	clickTimes := []time.Duration{0, 200 * time.Millisecond, 400 * time.Millisecond, 600 * time.Millisecond}

	index := 0
	const numScreens = 4
	for _, start := range clickTimes {
		if ev := b.Poll(true, t0.Add(start)); ev != Press {
			t.Fatalf("expected Press at t=%v, got %v", start, ev)
		}
		release := start + 50*time.Millisecond
		if ev := b.Poll(false, t0.Add(release)); ev == Click {
			index = (index + 1) % numScreens
		}
	}
	if index != 0 {
		t.Fatalf("expected carousel back at screen 0 after 4 clicks, got %d", index)
	}
}
