package metrics

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeBinarySize(t *testing.T) {
	s := New(time.Now())
	buf := s.EncodeBinary(time.Now())
	if len(buf) != BinaryPacketSize {
		t.Fatalf("len = %d, want %d", len(buf), BinaryPacketSize)
	}
}

func TestEncodeBinaryFieldsRoundTrip(t *testing.T) {
	s := New(time.Now())
	s.SetTemperature(215)
	s.SetBattery(87, 4120, true)
	s.SetFPS(598, 60)
	s.SetCPU(42, 40, 44, 240)
	s.SetHeap(123456, 524288)
	s.SetWiFi(-55, true)
	s.SetBrightness(200)
	s.AddFrame(16, 8, false)

	buf := s.EncodeBinary(time.Now())

	if buf[0] != PacketVersion {
		t.Fatalf("version byte = %d, want %d", buf[0], PacketVersion)
	}
	if got := int16(binary.LittleEndian.Uint16(buf[9:11])); got != 215 {
		t.Fatalf("temperature = %d, want 215", got)
	}
	if buf[11] != 87 {
		t.Fatalf("battery%% = %d, want 87", buf[11])
	}
	if got := binary.LittleEndian.Uint16(buf[12:14]); got != 4120 {
		t.Fatalf("battery_mv = %d, want 4120", got)
	}
	if buf[14] != 1 {
		t.Fatal("charging byte should be 1")
	}
	if got := binary.LittleEndian.Uint16(buf[15:17]); got != 598 {
		t.Fatalf("fps = %d, want 598", got)
	}
	if buf[17] != 60 {
		t.Fatalf("fps_target = %d, want 60", buf[17])
	}
	if got := binary.LittleEndian.Uint32(buf[23:27]); got != 123456 {
		t.Fatalf("heap_free = %d, want 123456", got)
	}
	if buf[31] != 0xC9 { // -55 as int8 -> two's complement 0xC9
		t.Fatalf("rssi byte = %x, want c9", buf[31])
	}
	if buf[32] != 1 {
		t.Fatal("wifi_connected byte should be 1")
	}
	if buf[33] != 200 {
		t.Fatalf("brightness = %d, want 200", buf[33])
	}
	for i := 46; i < BinaryPacketSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("reserved byte %d is non-zero", i)
		}
	}
}
