package metrics

import (
	"encoding/binary"
	"time"
)

// BinaryPacketSize is the fixed wire size of the packed metrics record
// served from /api/metrics/binary. The explicit fields below account for 46
// bytes; the remaining 17 are reserved, zero-filled padding carried over
// from the source record's natural struct alignment and left for future
// fields without breaking existing parsers.
const BinaryPacketSize = 63

// PacketVersion is the schema version written into byte 0 of every binary
// packet. Bump it whenever a field's offset or meaning changes.
const PacketVersion = 1

// EncodeBinary packs the snapshot into the fixed 63-byte little-endian
// record from the external-interfaces table. Every field is written at an
// explicit offset rather than produced by encoding a Go struct, so the
// layout never depends on this toolchain's padding rules.
func (s *Snapshot) EncodeBinary(now time.Time) [BinaryPacketSize]byte {
	var buf [BinaryPacketSize]byte

	buf[0] = PacketVersion
	binary.LittleEndian.PutUint64(buf[1:9], uint64(now.UnixMilli()))
	binary.LittleEndian.PutUint16(buf[9:11], uint16(s.TemperatureX10()))
	buf[11] = uint8(s.BatteryPercent())
	binary.LittleEndian.PutUint16(buf[12:14], s.BatteryMV())
	buf[14] = boolByte(s.Charging())
	binary.LittleEndian.PutUint16(buf[15:17], s.FPSX10())
	buf[17] = s.FPSTarget()
	buf[18] = uint8(s.CPUPercent())
	buf[19] = uint8(s.CPU0Percent())
	buf[20] = uint8(s.CPU1Percent())
	binary.LittleEndian.PutUint16(buf[21:23], s.CPUMHz())
	binary.LittleEndian.PutUint32(buf[23:27], s.HeapFree())
	binary.LittleEndian.PutUint32(buf[27:31], s.HeapTotal())
	buf[31] = uint8(s.RSSI())
	buf[32] = boolByte(s.WiFiConnected())
	buf[33] = s.Brightness()
	binary.LittleEndian.PutUint32(buf[34:38], s.FrameCount())
	binary.LittleEndian.PutUint32(buf[38:42], s.SkipCount())
	binary.LittleEndian.PutUint16(buf[42:44], s.RenderMS())
	binary.LittleEndian.PutUint16(buf[44:46], s.FlushMS())
	// buf[46:63] stays zero: reserved.

	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
