package ui

import (
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// SensorsScreen shows temperature (raw and filtered) and battery state.
type SensorsScreen struct {
	tempRaw, tempFiltered float64
	batteryPercent        int8
	batteryMV             uint16
	charging              bool

	tempLine    dynamicLine
	batteryLine dynamicLine
	chargeLine  dynamicLine
}

func NewSensorsScreen() *SensorsScreen {
	return &SensorsScreen{
		tempLine:    newDynamicLine(8, 20, 2),
		batteryLine: newDynamicLine(8, 40, 2),
		chargeLine:  newDynamicLine(8, 60, 2),
	}
}

func (s *SensorsScreen) Title() string { return "SENSORS" }

func (s *SensorsScreen) Update(snap *metrics.Snapshot) {
	s.tempRaw, s.tempFiltered = snap.TemperatureCurve()
	s.batteryPercent = snap.BatteryPercent()
	s.batteryMV = snap.BatteryMV()
	s.charging = snap.Charging()
}

func (s *SensorsScreen) Draw(c *display.Canvas, th Theme, full bool) {
	if full {
		c.Text(8, 4, s.Title(), th.Accent, 2)
		c.Line(0, 16, display.Width, 16, th.Muted)
	}
	s.tempLine.draw(c, th, "TEMP "+formatFloat1(s.tempFiltered, "C (RAW ")+formatFloat1(s.tempRaw, "C)"), full)
	s.batteryLine.draw(c, th, "BATT "+formatInt(int64(s.batteryPercent), "% ")+formatUint(uint64(s.batteryMV), "MV"), full)

	charge := "ON BATTERY"
	color := th.Muted
	if s.charging {
		charge = "CHARGING"
		color = th.Accent
	}
	s.chargeLine.drawColor(c, th, charge, color, full)
}
