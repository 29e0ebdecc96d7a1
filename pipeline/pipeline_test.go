package pipeline

import (
	"testing"
	"time"
)

func TestTrySendDropsWhenFull(t *testing.T) {
	ch := make(chan int, 1)
	if !TrySend(ch, 1, nil, "q") {
		t.Fatal("first send into empty channel should succeed")
	}
	if TrySend(ch, 2, nil, "q") {
		t.Fatal("send into full channel should report dropped")
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected the first value to survive, got %d", v)
	}
}

func TestTryRecvEmpty(t *testing.T) {
	ch := make(chan int)
	if _, ok := TryRecv(ch); ok {
		t.Fatal("TryRecv on an empty channel should report not ok")
	}
}

func TestDrainLatestKeepsOnlyNewest(t *testing.T) {
	ch := make(chan int, QueueDepth)
	for i := 1; i <= 3; i++ {
		ch <- i
	}
	v, ok := DrainLatest(ch)
	if !ok || v != 3 {
		t.Fatalf("expected newest value 3, got %d ok=%v", v, ok)
	}
	if _, ok := TryRecv(ch); ok {
		t.Fatal("channel should be fully drained")
	}
}

func TestProcessorTickRequiresAtLeastOneSensorReading(t *testing.T) {
	p := NewProcessor(nil)
	if _, ok := p.Tick(); ok {
		t.Fatal("Tick should report not-ok before any sensor reading has arrived")
	}
}

func TestProcessorTickMovingAverage(t *testing.T) {
	p := NewProcessor(nil)
	readings := []int16{100, 200, 300, 400, 500, 600}
	var out ProcessedUpdate
	var ok bool
	for _, r := range readings {
		p.SensorQ <- SensorUpdate{TemperatureRawX10: r}
		out, ok = p.Tick()
		if !ok {
			t.Fatal("Tick should be ok once a sensor reading has arrived")
		}
	}
	// Window holds the last 5 of the 6 readings: 200,300,400,500,600 -> avg 400.
	if out.TemperatureFilteredX10 != 400 {
		t.Fatalf("expected filtered average 400, got %d", out.TemperatureFilteredX10)
	}
	if out.TemperatureRawX10 != 600 {
		t.Fatalf("expected raw to be the latest reading 600, got %d", out.TemperatureRawX10)
	}
}

func TestProcessorTickCarriesNetworkFieldsWhenPresent(t *testing.T) {
	p := NewProcessor(nil)
	p.SensorQ <- SensorUpdate{TemperatureRawX10: 250, BatteryPercent: 80}
	p.NetworkQ <- NetUpdate{RSSI: -55, Connected: true, SSID: "home"}
	out, ok := p.Tick()
	if !ok {
		t.Fatal("expected ok")
	}
	if !out.Connected || out.RSSI != -55 || out.SSID != "home" {
		t.Fatalf("network fields not carried through: %+v", out)
	}
	if out.BatteryPercent != 80 {
		t.Fatalf("expected battery percent 80, got %d", out.BatteryPercent)
	}
}

func TestProcessorTickWithoutNetworkUpdateLeavesFieldsZero(t *testing.T) {
	p := NewProcessor(nil)
	p.SensorQ <- SensorUpdate{TemperatureRawX10: 250}
	out, ok := p.Tick()
	if !ok {
		t.Fatal("expected ok")
	}
	if out.Connected || out.RSSI != 0 || out.SSID != "" {
		t.Fatalf("expected zero network fields without a NetUpdate, got %+v", out)
	}
}

func TestProcessorRunStopsOnShutdown(t *testing.T) {
	p := NewProcessor(nil)
	shutdown := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Run(time.Millisecond, shutdown, nil)
		close(done)
	}()
	p.SensorQ <- SensorUpdate{TemperatureRawX10: 123}
	close(shutdown)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after shutdown was closed")
	}
}

type fakeRSSIProvider struct {
	connected bool
	rssi      int8
	ssid      string
}

func (f *fakeRSSIProvider) RSSI() (int8, error) { return f.rssi, nil }
func (f *fakeRSSIProvider) Connected() bool     { return f.connected }
func (f *fakeRSSIProvider) SSID() string        { return f.ssid }

func TestNetworkMonitorPublishesWhileConnected(t *testing.T) {
	out := make(chan NetUpdate, QueueDepth)
	m := &NetworkMonitor{
		Provider: &fakeRSSIProvider{connected: true, rssi: -42, ssid: "office"},
		Out:      out,
	}
	shutdown := make(chan struct{})
	done := make(chan struct{})
	go func() {
		m.Run(time.Millisecond, shutdown, nil)
		close(done)
	}()

	select {
	case u := <-out:
		if !u.Connected || u.RSSI != -42 || u.SSID != "office" {
			t.Fatalf("unexpected update: %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a NetUpdate")
	}

	close(shutdown)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after shutdown was closed")
	}
}

func TestNetworkMonitorOmitsRSSIWhenDisconnected(t *testing.T) {
	out := make(chan NetUpdate, QueueDepth)
	m := &NetworkMonitor{
		Provider: &fakeRSSIProvider{connected: false, rssi: -99, ssid: "ignored"},
		Out:      out,
	}
	shutdown := make(chan struct{})
	go m.Run(time.Millisecond, shutdown, nil)
	defer close(shutdown)

	select {
	case u := <-out:
		if u.Connected || u.RSSI != 0 || u.SSID != "" {
			t.Fatalf("expected zero-value update while disconnected, got %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a NetUpdate")
	}
}
