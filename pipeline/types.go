// Package pipeline implements the inter-core data path: sensor sampling and
// network monitoring each feed a bounded queue into a single processor,
// which filters and republishes one combined update for the UI side to
// consume. The three queues model a Core A/Core B split; on a single
// TinyGo binary they are plain buffered channels, with goroutines
// standing in for the two hardware cores (the network pump goroutine,
// `go loopForeverStack(cystack)`, plays the Core B role).
package pipeline

// SensorUpdate is produced by the sensor task every 5s.
type SensorUpdate struct {
	TemperatureRawX10 int16 // degrees C * 10
	BatteryPercent    int8
	BatteryMV         uint16
	Charging          bool
}

// NetUpdate is produced by the network monitor every 10s.
type NetUpdate struct {
	RSSI      int8
	Connected bool
	SSID      string
}

// ProcessedUpdate is the processor's single combined output, emitted once
// per 100ms tick.
type ProcessedUpdate struct {
	TemperatureRawX10      int16
	TemperatureFilteredX10 int16
	BatteryPercent         int8
	BatteryMV              uint16
	Charging               bool
	RSSI                   int8
	Connected              bool
	SSID                   string
}

// QueueDepth is the fixed capacity of every pipeline queue.
const QueueDepth = 4
