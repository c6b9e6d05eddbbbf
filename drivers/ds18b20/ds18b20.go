// Package ds18b20 drives the DS18B20 digital thermometer over a 1-Wire bus.
// It exposes a two-phase measurement API so callers can interleave other
// work during the ~750ms conversion:
//
//	ready, err := d.StartConversion(addr) // issue ConvertT (fast)
//	...                                   // do other work until ready
//	s, err := d.ReadResult(addr)          // CRC-checked scratchpad read
//
// For convenience, d.Read() performs start + wait + bounded retries.
//
// Temperatures are fixed-point centi-°C on the hot path; no floats.
package ds18b20

import (
	"time"

	"cookmon-go/drivers/onewire"
	"cookmon-go/errcode"
	"cookmon-go/types"
	"cookmon-go/x/timex"
)

// Family is the DS18B20 family code (byte 0 of the ROM).
const Family = 0x28

// Function commands.
const (
	cmdConvertT       = 0x44
	cmdReadScratchpad = 0xBE
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// ConversionTime is the wait between ConvertT and a valid read.
	// Default 750ms (12-bit resolution).
	ConversionTime time.Duration
	// ReadRetries bounds ReadResult retries inside Read(). Default 3.
	ReadRetries int
	// DiscoverRetries bounds search attempts in Discover(). Default 5.
	DiscoverRetries int
	// RetryBackoff is slept between discovery attempts. Default 50ms.
	RetryBackoff time.Duration
}

// Device wraps a 1-Wire bus with DS18B20 protocol operations.
type Device struct {
	bus *onewire.Bus
	cfg Config

	buf [9]byte // reused scratchpad buffer, no per-read allocations
}

// New creates the device handle. The bus must already be constructed;
// this does not touch the hardware.
func New(bus *onewire.Bus, cfgs ...Config) *Device {
	d := &Device{bus: bus}
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.ConversionTime <= 0 {
		c.ConversionTime = 750 * time.Millisecond
	}
	if c.ReadRetries <= 0 {
		c.ReadRetries = 3
	}
	if c.DiscoverRetries <= 0 {
		c.DiscoverRetries = 5
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 50 * time.Millisecond
	}
	d.cfg = c
	return d
}

// Discover searches the bus for DS18B20 devices, retrying a bounded number
// of times. Non-family devices are ignored. Returns errcode.NoSensor once
// the retry budget is exhausted; the caller decides when to try again.
func (d *Device) Discover() ([]types.DeviceAddress, error) {
	var lastErr error
	for attempt := 0; attempt < d.cfg.DiscoverRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.cfg.RetryBackoff)
		}
		addrs, err := d.bus.Search()
		if err != nil {
			lastErr = err
			continue
		}
		out := addrs[:0]
		for _, a := range addrs {
			if a.Family() == Family {
				out = append(out, a)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
		lastErr = errcode.NoPresence
	}
	return nil, &errcode.E{C: errcode.NoSensor, Op: "ds18b20.discover", Err: lastErr}
}

// StartConversion issues ConvertT to the addressed device and returns the
// instant a result is expected to be ready. It does not block for the
// conversion itself.
func (d *Device) StartConversion(addr types.DeviceAddress) (time.Time, error) {
	if err := d.selectDevice(addr); err != nil {
		return time.Time{}, err
	}
	d.bus.SendByte(cmdConvertT)
	return time.Now().Add(d.cfg.ConversionTime), nil
}

// ReadResult reads and CRC-validates the 9-byte scratchpad and converts the
// two's-complement tick count (1/16°C per LSB) to centi-°C. A corrupted
// transfer yields errcode.CrcMismatch, never a silently wrong value.
func (d *Device) ReadResult(addr types.DeviceAddress) (types.Sample, error) {
	if err := d.selectDevice(addr); err != nil {
		return types.Sample{}, err
	}
	d.bus.SendByte(cmdReadScratchpad)
	d.bus.RecvBytes(d.buf[:])

	if onewire.Crc8(d.buf[:8]) != d.buf[8] {
		return types.Sample{}, errcode.CrcMismatch
	}
	raw := int16(uint16(d.buf[0]) | uint16(d.buf[1])<<8)
	return types.Sample{TsMs: timex.NowMs(), CentiC: RawToCenti(raw)}, nil
}

// Read performs a full cycle: start, wait out the conversion, then collect
// with bounded retries (re-issued bus reset between attempts). On
// exhaustion the last error surfaces; the caller keeps its previous
// known-good sample.
func (d *Device) Read(addr types.DeviceAddress) (types.Sample, error) {
	ready, err := d.StartConversion(addr)
	if err != nil {
		return types.Sample{}, err
	}
	if wait := time.Until(ready); wait > 0 {
		time.Sleep(wait)
	}
	var lastErr error
	for attempt := 0; attempt < d.cfg.ReadRetries; attempt++ {
		s, err := d.ReadResult(addr)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	if errcode.Is(lastErr, errcode.NoPresence) {
		// ready instant passed and the device stopped answering
		return types.Sample{}, &errcode.E{C: errcode.ConversionTimeout, Op: "ds18b20.read", Err: lastErr}
	}
	return types.Sample{}, lastErr
}

// selectDevice addresses a single device with MatchROM.
func (d *Device) selectDevice(addr types.DeviceAddress) error {
	if err := d.bus.ResetAndWrite(onewire.CmdMatchROM); err != nil {
		return err
	}
	for _, b := range addr {
		d.bus.SendByte(b)
	}
	return nil
}

// RawToCenti converts a raw tick count (1/16°C per LSB) to centi-°C,
// rounding toward nearest.
func RawToCenti(raw int16) int32 {
	num := int32(raw) * 25 // 100/16 = 25/4
	if num >= 0 {
		return (num + 2) / 4
	}
	return (num - 2) / 4
}
