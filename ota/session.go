// Package ota also defines Session, the hardware-free progress/state
// tracker an OTA upload drives through Idle -> Downloading -> Verifying
// -> Ready, or to Failed from any in-progress state. It carries no cgo
// and no build tag so it is exercised directly by host tests.
package ota

// Status is one OTA session state.
type Status uint8

const (
	Idle Status = iota
	Downloading
	Verifying
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Downloading:
		return "downloading"
	case Verifying:
		return "verifying"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Session tracks one OTA upload's progress. ProgressPercent is monotonic
// non-decreasing for the lifetime of a session: AddBytes never reduces
// bytesReceived even if called with conflicting totals.
type Session struct {
	status        Status
	totalBytes    uint32
	bytesReceived uint32
}

// NewSession starts a session in Downloading with the expected total size.
func NewSession(totalBytes uint32) *Session {
	return &Session{status: Downloading, totalBytes: totalBytes}
}

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// AddBytes records n more bytes received and keeps the session
// in Downloading. Calling it after the session has left Downloading is a
// no-op, since progress only means something during that state.
func (s *Session) AddBytes(n uint32) {
	if s.status != Downloading {
		return
	}
	s.bytesReceived += n
	if s.totalBytes > 0 && s.bytesReceived > s.totalBytes {
		s.bytesReceived = s.totalBytes
	}
}

// ProgressPercent returns 0-100 based on bytes received over the
// expected total, clamped even if AddBytes has overrun it.
func (s *Session) ProgressPercent() uint8 {
	if s.totalBytes == 0 {
		return 0
	}
	pct := uint64(s.bytesReceived) * 100 / uint64(s.totalBytes)
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

// Verify transitions Downloading -> Verifying. Calling it from any other
// state is a no-op.
func (s *Session) Verify() {
	if s.status == Downloading {
		s.status = Verifying
	}
}

// Ready transitions Verifying -> Ready.
func (s *Session) Ready() {
	if s.status == Verifying {
		s.status = Ready
	}
}

// Fail moves the session to Failed from any in-progress state. Calling it
// from Ready is a no-op: a completed session cannot un-complete.
func (s *Session) Fail() {
	if s.status == Downloading || s.status == Verifying {
		s.status = Failed
	}
}
