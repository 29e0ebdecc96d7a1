package ui

import (
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// NetworkScreen shows Wi-Fi association state: SSID, signal strength, and
// whether the station is currently connected.
type NetworkScreen struct {
	ssid      string
	rssi      int8
	connected bool

	ssidLine   dynamicLine
	rssiLine   dynamicLine
	statusLine dynamicLine
}

func NewNetworkScreen() *NetworkScreen {
	return &NetworkScreen{
		ssidLine:   newDynamicLine(8, 20, 2),
		rssiLine:   newDynamicLine(8, 40, 2),
		statusLine: newDynamicLine(8, 60, 2),
	}
}

func (s *NetworkScreen) Title() string { return "NETWORK" }

func (s *NetworkScreen) Update(snap *metrics.Snapshot) {
	s.ssid = snap.SSID()
	s.rssi = snap.RSSI()
	s.connected = snap.WiFiConnected()
}

func (s *NetworkScreen) Draw(c *display.Canvas, th Theme, full bool) {
	if full {
		c.Text(8, 4, s.Title(), th.Accent, 2)
		c.Line(0, 16, display.Width, 16, th.Muted)
	}
	ssid := s.ssid
	if ssid == "" {
		ssid = "NOT CONNECTED"
	}
	s.ssidLine.draw(c, th, "SSID "+ssid, full)
	s.rssiLine.draw(c, th, "RSSI "+formatInt(int64(s.rssi), " DBM"), full)

	statusColor := th.Muted
	status := "DISCONNECTED"
	if s.connected {
		statusColor = th.Accent
		status = "CONNECTED"
	}
	s.statusLine.drawColor(c, th, status, statusColor, full)
}
