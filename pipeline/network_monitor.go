//go:build tinygo

package pipeline

import (
	"log/slog"
	"time"
)

// RSSIProvider abstracts the one piece of the WiFi stack this monitor
// needs. cyw43439/cywnet expose connection state and the associated
// SSID through their own types rather than a narrow interface; main.go
// adapts whatever the driver offers to this shape at wiring time, which
// keeps NetworkMonitor buildable and testable without depending on the
// exact driver version's method set.
type RSSIProvider interface {
	RSSI() (int8, error)
	Connected() bool
	SSID() string
}

// NetworkMonitor polls RSSIProvider every period and publishes a
// NetUpdate. It runs alongside SensorTask on Core B.
type NetworkMonitor struct {
	Provider RSSIProvider
	Out      chan<- NetUpdate
	Logger   *slog.Logger
}

// Run polls every period until shutdown is closed.
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
