package ui

import (
	"time"

	"openenterprise/tinydash/display"
	"openenterprise/tinydash/metrics"
)

// SystemScreen shows firmware version, uptime, heap, and the render loop's
// own timing — the numbers an operator checks first when something feels
// slow.
type SystemScreen struct {
	version   string
	uptimeMS  int64
	heapFree  uint32
	heapTotal uint32
	renderMS  uint16
	flushMS   uint16
	frames    uint32

	versionLine dynamicLine
	uptimeLine  dynamicLine
	heapLine    dynamicLine
	timingLine  dynamicLine
	framesLine  dynamicLine
}

// NewSystemScreen lays out its dynamic fields top to bottom starting below
// the title.
func NewSystemScreen() *SystemScreen {
	return &SystemScreen{
		versionLine: newDynamicLine(8, 20, 2),
		uptimeLine:  newDynamicLine(8, 40, 2),
		heapLine:    newDynamicLine(8, 60, 2),
		timingLine:  newDynamicLine(8, 80, 2),
		framesLine:  newDynamicLine(8, 100, 2),
	}
}

func (s *SystemScreen) Title() string { return "SYSTEM" }

func (s *SystemScreen) Update(snap *metrics.Snapshot) {
	s.version = snap.FirmwareVersion()
	s.uptimeMS = snap.UptimeMS(time.Now())
	s.heapFree = snap.HeapFree()
	s.heapTotal = snap.HeapTotal()
	s.renderMS = snap.RenderMS()
	s.flushMS = snap.FlushMS()
	s.frames = snap.FrameCount()
}

func (s *SystemScreen) Draw(c *display.Canvas, th Theme, full bool) {
	if full {
		c.Text(8, 4, s.Title(), th.Accent, 2)
		c.Line(0, 16, display.Width, 16, th.Muted)
	}
	ver := s.version
	if ver == "" {
		ver = "DEV"
	}
	s.versionLine.draw(c, th, "VER "+ver, full)
	s.uptimeLine.draw(c, th, "UP "+formatUptime(s.uptimeMS), full)
	s.heapLine.draw(c, th, "HEAP "+formatUint(uint64(s.heapFree/1024), "K/")+formatUint(uint64(s.heapTotal/1024), "K"), full)
	s.timingLine.draw(c, th, "RENDER "+formatUint(uint64(s.renderMS), "MS FLUSH ")+formatUint(uint64(s.flushMS), "MS"), full)
	s.framesLine.draw(c, th, "FRAMES "+formatUint(uint64(s.frames), ""), full)
}
