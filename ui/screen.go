package ui

import (
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// Screen is one of the four indexable UI variants. Draw is called every
// render tick; full is true on screen change, theme change, or first
// render, and false otherwise. A screen implementation is responsible for
// erasing its own prior dynamic content before redrawing when full is
// false — nothing above it tracks what was drawn last frame.
type Screen interface {
	Title() string
	Update(snap *metrics.Snapshot)
	Draw(c *display.Canvas, th Theme, full bool)
}
