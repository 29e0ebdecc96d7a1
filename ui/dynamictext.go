package ui

import "openenterprise/tinydash/display"

// dynamicLine draws one line of text that changes frame to frame. On a
// non-full tick it erases its own previous content before drawing the new
// string, satisfying each screen's obligation to clean up after itself; on
// a full tick the background is already cleared by State.RenderTick, so it
// just draws.
type dynamicLine struct {
	x, y, scale int
	prev        string
}

func newDynamicLine(x, y, scale int) dynamicLine {
	return dynamicLine{x: x, y: y, scale: scale}
}

func (d *dynamicLine) draw(c *display.Canvas, th Theme, s string, full bool) {
	d.drawColor(c, th, s, th.Foreground, full)
}

// drawColor is draw with an explicit color, for lines whose color carries
// state (a status line turning from muted to accent, for example).
func (d *dynamicLine) drawColor(c *display.Canvas, th Theme, s string, color display.Pixel, full bool) {
	if !full {
		if s == d.prev {
			return
		}
		if d.prev != "" {
			c.FillRect(d.x, d.y, display.TextWidth(d.prev, d.scale), display.TextHeight(d.scale), th.Background)
		}
	}
	c.Text(d.x, d.y, s, color, d.scale)
	d.prev = s
}
