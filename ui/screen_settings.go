package ui

import (
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// SettingsScreen shows the active brightness level and a reminder of the
// (currently stubbed) long-press menu gesture. It has no editable controls
// of its own yet — that's the menu's job once it exists.
type SettingsScreen struct {
	brightness uint8

	brightnessLine dynamicLine
}

func NewSettingsScreen() *SettingsScreen {
	return &SettingsScreen{
		brightnessLine: newDynamicLine(8, 20, 2),
	}
}

func (s *SettingsScreen) Title() string { return "SETTINGS" }

func (s *SettingsScreen) Update(snap *metrics.Snapshot) {
	s.brightness = snap.Brightness()
}

func (s *SettingsScreen) Draw(c *display.Canvas, th Theme, full bool) {
	if full {
		c.Text(8, 4, s.Title(), th.Accent, 2)
		c.Line(0, 16, display.Width, 16, th.Muted)
		c.Text(8, 140, "LONG PRESS: MENU (STUBBED)", th.Muted, 1)
	}
	pct := uint64(s.brightness) * 100 / 255
	s.brightnessLine.draw(c, th, "BRIGHTNESS "+formatUint(pct, "%"), full)
}
