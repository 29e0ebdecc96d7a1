//go:build tinygo

package pipeline

import (
	"log/slog"
	"machine"
	"time"
)

// SensorTask samples the on-board temperature and battery ADC channels
// every period and publishes a SensorUpdate. It runs on the Core B
// equivalent goroutine; TrySend never blocks it against a slow processor.
type SensorTask struct {
	TempADC      machine.ADC
	BatteryADC   machine.ADC
	ChargeDetect machine.Pin

	Out    chan<- SensorUpdate
	Logger *slog.Logger
}

// Configure prepares the ADC channels and the charge-detect input.
func (s *SensorTask) Configure() {
	s.TempADC.Configure(machine.ADCConfig{})
	s.BatteryADC.Configure(machine.ADCConfig{})
	s.ChargeDetect.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

// readTemperature converts a raw 16-bit ADC sample from a linear analog
// temperature sensor (10mV/°C, 500mV offset at 0°C, 3.3V reference) into
// tenths of a degree Celsius.
func readTemperature(raw uint16) int16 {
	millivolts := int32(raw) * 3300 / 0xFFFF
	return int16((millivolts - 500)) // already in tenths: 10mV per degree C is 1mV per 0.1C step
}

// readBatteryPercent maps a raw ADC sample from a 2:1 divider across a
// single-cell Li-ion (3.0V empty, 4.2V full at the battery, so 1.5V-2.1V at
// the ADC pin) to an approximate percentage.
func readBatteryPercent(raw uint16) (percent int8, millivolts uint16) {
	mv := uint32(raw) * 3300 / 0xFFFF * 2 // undo the 2:1 divider
	const empty, full = 3000, 4200
	if mv <= empty {
		return 0, uint16(mv)
	}
	if mv >= full {
		return 100, uint16(mv)
	}
	return int8((mv - empty) * 100 / (full - empty)), uint16(mv)
}

// Run samples every period until shutdown is closed.
func (s *SensorTask) Run(period time.Duration, shutdown <-chan struct{}, feedWatchdog func()) {
	for {
		select {
		case <-shutdown:
			return
		default:
		}

		tempX10 := readTemperature(s.TempADC.Get())
		battPercent, battMV := readBatteryPercent(s.BatteryADC.Get())
		charging := !s.ChargeDetect.Get() // active-low charge-detect input

		TrySend(s.Out, SensorUpdate{
			TemperatureRawX10: tempX10,
			BatteryPercent:    battPercent,
			BatteryMV:         battMV,
			Charging:          charging,
		}, s.Logger, "sensor_q")

		if feedWatchdog != nil {
			feedWatchdog()
		}
		time.Sleep(period)
	}
}
