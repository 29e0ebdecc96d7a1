// Package ui owns the on-device screen state machine: which screen is
// showing, the full-repaint flag, and the four screen implementations that
// draw against a display.Framebuffer using a metrics.Snapshot as their only
// data source.
package ui

import "openenterprise/tinydash/display"

// Theme is a small palette passed to every screen's Draw call. A theme
// change forces a full repaint the same way a screen change does.
type Theme struct {
	Background display.Pixel
	Foreground display.Pixel
	Accent     display.Pixel
	Muted      display.Pixel
}

// Dark and Light are the two built-in themes; the config store's Theme enum
// selects between them.
var (
	Dark = Theme{
		Background: display.Black,
		Foreground: display.White,
		Accent:     display.Green,
		Muted:      display.Gray,
	}
	Light = Theme{
		Background: display.White,
		Foreground: display.Black,
		Accent:     display.Blue,
		Muted:      display.Gray,
	}
)
