package ui

import (
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// State drives the four-screen carousel: which screen is current, which was
// last actually rendered, and whether the next render must be a full
// repaint. It holds no drawing logic itself — that lives in each Screen.
type State struct {
	screens      []Screen
	currentIndex int
	lastRendered int
	fullRepaint  bool
	theme        Theme
}

// NewState builds a carousel over screens in the given order, starting on
// screen 0 with a full repaint pending (every boot is a first render).
func NewState(theme Theme, screens ...Screen) *State {
	return &State{
		screens:      screens,
		currentIndex: 0,
		lastRendered: -1, // guarantees the first RenderTick sees a change
		fullRepaint:  true,
		theme:        theme,
	}
}

func (st *State) NumScreens() int { return len(st.screens) }

func (st *State) CurrentIndex() int { return st.currentIndex }

func (st *State) Current() Screen { return st.screens[st.currentIndex] }

// NextScreen implements button 2's click mapping: advance, wrapping at the
// end of the carousel.
func (st *State) NextScreen() {
	st.currentIndex = (st.currentIndex + 1) % len(st.screens)
}

// PreviousScreen implements button 1's click mapping: go back, wrapping at
// the start.
func (st *State) PreviousScreen() {
	st.currentIndex = (st.currentIndex - 1 + len(st.screens)) % len(st.screens)
}

// SetTheme changes the active theme and forces a full repaint, matching the
// render contract's "theme change" trigger.
func (st *State) SetTheme(th Theme) {
	st.theme = th
	st.fullRepaint = true
}

func (st *State) Theme() Theme { return st.theme }

// RequestFullRepaint forces the next RenderTick to treat the frame as a
// screen change even if the index didn't move.
func (st *State) RequestFullRepaint() { st.fullRepaint = true }

// RenderTick applies the per-frame render contract: on screen or theme
// change, the screen region is cleared and drawn with full=true; otherwise
// only the current screen's dynamic content is redrawn. snap is pushed into
// the current screen via Update before Draw is called, so a screen always
// draws against its own freshly cached copy of shared metrics.
func (st *State) RenderTick(c *display.Canvas, snap *metrics.Snapshot) {
	screen := st.Current()
	screen.Update(snap)

	changed := st.currentIndex != st.lastRendered || st.fullRepaint
	if changed {
		c.FillRect(0, 0, display.Width, display.Height, st.theme.Background)
	}
	screen.Draw(c, st.theme, changed)

	st.lastRendered = st.currentIndex
	st.fullRepaint = false
}
