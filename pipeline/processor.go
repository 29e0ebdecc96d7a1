package pipeline

import (
	"log/slog"
	"time"
)

const movingAverageWindow = 5

// Processor drains the sensor and network queues, applies a 5-sample
// moving average to temperature, and republishes one ProcessedUpdate per
// tick. It is pure enough to unit test via Tick alone; Run wraps Tick in
// the actual periodic loop.
type Processor struct {
	SensorQ    chan SensorUpdate
	NetworkQ   chan NetUpdate
	ProcessedQ chan ProcessedUpdate

	logger *slog.Logger

	tempSamples [movingAverageWindow]int16
	tempCount   int
	tempNext    int
	filteredX10 int16

	lastSensor SensorUpdate
	lastNet    NetUpdate
	haveSensor bool
	haveNet    bool
}

// NewProcessor allocates the three queues at their fixed depth.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		SensorQ:    make(chan SensorUpdate, QueueDepth),
		NetworkQ:   make(chan NetUpdate, QueueDepth),
		ProcessedQ: make(chan ProcessedUpdate, QueueDepth),
		logger:     logger,
	}
}

// addTempSample folds in a freshly arrived raw reading and returns the
// updated average over the last (up to) 5 samples.
func (p *Processor) addTempSample(x int16) int16 {
	p.tempSamples[p.tempNext] = x
	p.tempNext = (p.tempNext + 1) % movingAverageWindow
	if p.tempCount < movingAverageWindow {
		p.tempCount++
	}
	var sum int32
	for i := 0; i < p.tempCount; i++ {
		sum += int32(p.tempSamples[i])
	}
	return int16(sum / int32(p.tempCount))
}

// Tick drains both input queues, keeping only the most recent of each,
// updates the temperature filter when a new sensor reading arrived, and
// returns the combined update. ok is false only when no sensor reading has
// ever arrived, since temperature is the one field every ProcessedUpdate
// must carry.
func (p *Processor) Tick() (ProcessedUpdate, bool) {
	if s, ok := DrainLatest(p.SensorQ); ok {
		p.lastSensor = s
		p.haveSensor = true
		p.filteredX10 = p.addTempSample(s.TemperatureRawX10)
	}
	if n, ok := DrainLatest(p.NetworkQ); ok {
		p.lastNet = n
		p.haveNet = true
	}
	if !p.haveSensor {
		return ProcessedUpdate{}, false
	}

	out := ProcessedUpdate{
		TemperatureRawX10:      p.lastSensor.TemperatureRawX10,
		TemperatureFilteredX10: p.filteredX10,
		BatteryPercent:         p.lastSensor.BatteryPercent,
		BatteryMV:              p.lastSensor.BatteryMV,
		Charging:               p.lastSensor.Charging,
	}
	if p.haveNet {
		out.RSSI = p.lastNet.RSSI
		out.Connected = p.lastNet.Connected
		out.SSID = p.lastNet.SSID
	}
	return out, true
}

// Run ticks every period until shutdown is closed, feeding the watchdog
// after every tick. On shutdown it runs one final Tick to drain whatever
// arrived just before the signal, then returns.
func (p *Processor) Run(period time.Duration, shutdown <-chan struct{}, feedWatchdog func()) {
	for {
		select {
		case <-shutdown:
			p.Tick()
			return
		default:
		}

		if out, ok := p.Tick(); ok {
			TrySend(p.ProcessedQ, out, p.logger, "processed_q")
		}
		if feedWatchdog != nil {
			feedWatchdog()
		}
		time.Sleep(period)
	}
}
