//go:build !tinygo

package pipeline

import (
	"log/slog"
	"time"
)

// RSSIProvider mirrors the tinygo build's interface so tests can exercise
// NetworkMonitor's polling loop without real hardware.
type RSSIProvider interface {
	RSSI() (int8, error)
	Connected() bool
	SSID() string
}

// NetworkMonitor is the host-testable twin of the tinygo NetworkMonitor,
// sharing field names and behaviour so tests written against it carry over.
type NetworkMonitor struct {
	Provider RSSIProvider
	Out      chan<- NetUpdate
	Logger   *slog.Logger
}

func (m *NetworkMonitor) Run(period time.Duration, shutdown <-chan struct{}, feedWatchdog func()) {
	for {
		select {
		case <-shutdown:
			return
		default:
		}

		update := NetUpdate{Connected: m.Provider.Connected()}
		if update.Connected {
			if rssi, err := m.Provider.RSSI(); err == nil {
				update.RSSI = rssi
			}
			update.SSID = m.Provider.SSID()
		}

		TrySend(m.Out, update, m.Logger, "network_q")

		if feedWatchdog != nil {
			feedWatchdog()
		}
		time.Sleep(period)
	}
}
