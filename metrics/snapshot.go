// Package metrics holds the single process-wide snapshot of device health:
// battery, thermal, wireless, and render-loop numbers read by the UI and by
// every HTTP handler, written by the sensor task, the main loop, and the
// button path. Every scalar field is independently atomic so a reader never
// blocks a writer for longer than one load; the few composite fields share
// one RWMutex that writers hold for microseconds at most.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is created once at boot and never torn down; zero value is a
// valid, if uninformative, starting point.
type Snapshot struct {
	version atomic.Uint32

	temperatureX10 atomic.Int32 // degrees C * 10
	batteryPercent atomic.Int32
	batteryMV      atomic.Uint32
	charging       atomic.Bool

	fpsX10    atomic.Uint32
	fpsTarget atomic.Uint32

	cpuPercent  atomic.Int32 // -1 means "N/A": Core B reported zero, indistinguishable from idle
	cpu0Percent atomic.Int32
	cpu1Percent atomic.Int32
	cpuMHz      atomic.Uint32

	heapFree  atomic.Uint32
	heapTotal atomic.Uint32

	rssi          atomic.Int32
	wifiConnected atomic.Bool
	brightness    atomic.Uint32

	frameCount atomic.Uint32
	skipCount  atomic.Uint32
	renderMS   atomic.Uint32
	flushMS    atomic.Uint32

	bootTime time.Time

	mu              sync.RWMutex
	ssid            string
	firmwareVersion string
	// tempCurve holds (raw, filtered) Celsius as the composite float pair:
	// the processor's 5-sample moving average needs both values together to
	// be meaningful, so they are read and written as a unit rather than as
	// two independent atomics that could be observed mid-update.
	tempCurve [2]float64
}

// New returns a snapshot with bootTime set to now, for uptime reporting.
func New(now time.Time) *Snapshot {
	return &Snapshot{bootTime: now}
}

// SetTemperature records the latest filtered reading in tenths of a degree,
// matching the binary packet's i16 field.
func (s *Snapshot) SetTemperature(celsiusX10 int16) { s.temperatureX10.Store(int32(celsiusX10)) }
func (s *Snapshot) TemperatureX10() int16           { return int16(s.temperatureX10.Load()) }

func (s *Snapshot) SetBattery(percent int8, millivolts uint16, charging bool) {
	s.batteryPercent.Store(int32(percent))
	s.batteryMV.Store(uint32(millivolts))
	s.charging.Store(charging)
}
func (s *Snapshot) BatteryPercent() int8 { return int8(s.batteryPercent.Load()) }
func (s *Snapshot) BatteryMV() uint16    { return uint16(s.batteryMV.Load()) }
func (s *Snapshot) Charging() bool       { return s.charging.Load() }

func (s *Snapshot) SetFPS(fpsX10 uint16, target uint8) {
	s.fpsX10.Store(uint32(fpsX10))
	s.fpsTarget.Store(uint32(target))
}
func (s *Snapshot) FPSX10() uint16   { return uint16(s.fpsX10.Load()) }
func (s *Snapshot) FPSTarget() uint8 { return uint8(s.fpsTarget.Load()) }

// SetCPU records overall and per-core load. A zero value from Core B is
// ambiguous with genuine idle, so callers pass -1 to mean "not reported" and
// readers render N/A for a negative value, per the open question this
// resolves.
func (s *Snapshot) SetCPU(overall, core0, core1 int8, mhz uint16) {
	s.cpuPercent.Store(int32(overall))
	s.cpu0Percent.Store(int32(core0))
	s.cpu1Percent.Store(int32(core1))
	s.cpuMHz.Store(uint32(mhz))
}
func (s *Snapshot) CPUPercent() int8  { return int8(s.cpuPercent.Load()) }
func (s *Snapshot) CPU0Percent() int8 { return int8(s.cpu0Percent.Load()) }
func (s *Snapshot) CPU1Percent() int8 { return int8(s.cpu1Percent.Load()) }
func (s *Snapshot) CPUMHz() uint16    { return uint16(s.cpuMHz.Load()) }

func (s *Snapshot) SetHeap(free, total uint32) {
	s.heapFree.Store(free)
	s.heapTotal.Store(total)
}
func (s *Snapshot) HeapFree() uint32  { return s.heapFree.Load() }
func (s *Snapshot) HeapTotal() uint32 { return s.heapTotal.Load() }

func (s *Snapshot) SetWiFi(rssi int8, connected bool) {
	s.rssi.Store(int32(rssi))
	s.wifiConnected.Store(connected)
}
func (s *Snapshot) RSSI() int8          { return int8(s.rssi.Load()) }
func (s *Snapshot) WiFiConnected() bool { return s.wifiConnected.Load() }

func (s *Snapshot) SetBrightness(v uint8) { s.brightness.Store(uint32(v)) }
func (s *Snapshot) Brightness() uint8     { return uint8(s.brightness.Load()) }

func (s *Snapshot) AddFrame(renderMS, flushMS uint16, skipped bool) {
	s.frameCount.Add(1)
	if skipped {
		s.skipCount.Add(1)
	}
	s.renderMS.Store(uint32(renderMS))
	s.flushMS.Store(uint32(flushMS))
}
func (s *Snapshot) FrameCount() uint32 { return s.frameCount.Load() }
func (s *Snapshot) SkipCount() uint32  { return s.skipCount.Load() }
func (s *Snapshot) RenderMS() uint16   { return uint16(s.renderMS.Load()) }
func (s *Snapshot) FlushMS() uint16    { return uint16(s.flushMS.Load()) }

// UptimeMS returns milliseconds since New was called, using now so the
// package never calls time.Now itself outside of New.
func (s *Snapshot) UptimeMS(now time.Time) int64 {
	return now.Sub(s.bootTime).Milliseconds()
}

// SetSSID and SSID guard the composite string field with the RWMutex; the
// copy made on read means callers never hold a reference into snapshot
// memory.
func (s *Snapshot) SetSSID(ssid string) {
	s.mu.Lock()
	s.ssid = ssid
	s.mu.Unlock()
}
func (s *Snapshot) SSID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ssid
}

func (s *Snapshot) SetFirmwareVersion(v string) {
	s.mu.Lock()
	s.firmwareVersion = v
	s.mu.Unlock()
}
func (s *Snapshot) FirmwareVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firmwareVersion
}

// SetTemperatureCurve stores the raw sensor reading alongside the filtered
// value as one unit so a reader never observes a filtered value paired with
// a stale raw one.
func (s *Snapshot) SetTemperatureCurve(raw, filtered float64) {
	s.mu.Lock()
	s.tempCurve[0], s.tempCurve[1] = raw, filtered
	s.mu.Unlock()
}
func (s *Snapshot) TemperatureCurve() (raw, filtered float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tempCurve[0], s.tempCurve[1]
}
