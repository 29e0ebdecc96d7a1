package config

import (
	_ "embed"
	"net/netip"
	"strings"
)

// factoryTelemetryCollector is the compile-time OTLP/HTTP collector
// target. It isn't part of the persisted Config record because it names
// infrastructure (where firmware ships telemetry), not a per-device
// setting the dashboard lets a user tune.
//
//go:embed telemetry_collector.text
var factoryTelemetryCollector string

// DefaultNTPServer is the primary NTP server main's boot sequence tries
// before falling back to the public pool.
const DefaultNTPServer = "time.cloudflare.com"

// TelemetryCollectorAddr parses the compile-time collector target.
// A missing or malformed value means telemetry.Init is skipped at boot
// rather than treated as fatal.
func TelemetryCollectorAddr() (netip.AddrPort, error) {
	return netip.ParseAddrPort(strings.TrimSpace(factoryTelemetryCollector))
}
