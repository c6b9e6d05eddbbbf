// Package types holds the small shared vocabulary of the firmware: samples,
// sensor addresses and the config documents services read from the bus.
package types

// Sample is one temperature datum. Immutable once created.
type Sample struct {
	TsMs   int64 // producer timestamp (ms, monotonic source)
	CentiC int32 // temperature in hundredths of a degree Celsius
}

// DeciC returns tenths of a degree, the resolution shown on the panel.
func (s Sample) DeciC() int32 { return s.CentiC / 10 }

// DeviceAddress is the 64-bit ROM id of a one-wire device.
// Byte 0 is the family code, bytes 1..6 the serial, byte 7 the CRC.
type DeviceAddress [8]byte

// Family returns the device family code (0x28 for a DS18B20).
func (a DeviceAddress) Family() byte { return a[0] }

// Less orders addresses lexicographically, family code first.
func (a DeviceAddress) Less(b DeviceAddress) bool {
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// SensorStatus is published retained on status/sensor.
type SensorStatus string

const (
	SensorOK       SensorStatus = "ok"
	SensorNotFound SensorStatus = "not_found"
	SensorDegraded SensorStatus = "degraded" // reads failing, stale sample retained
)
