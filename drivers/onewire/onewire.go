// Package onewire implements a bit-banged single-wire bus master (Dallas
// 1-Wire). The bus is half-duplex over one open-drain line with an external
// pull-up; every bit is a timed low pulse, so slot timing is the correctness-
// critical part: a violated slot silently corrupts the transaction instead of
// raising an error.
//
// The master is written against two narrow interfaces so it runs unchanged on
// an MCU pin or a simulated device net:
//
//	pin: Low / Release / Read   (open-drain drive + sample)
//	clk: Delay(us)              (>=1µs resolution)
package onewire

import (
	"cookmon-go/errcode"
)

// Pin is the open-drain GPIO the master drives. Release must leave the line
// in high impedance so the pull-up (or a device) owns it.
type Pin interface {
	Low()
	Release()
	Read() bool
}

// Clock provides microsecond-granularity delay for slot timing.
type Clock interface {
	Delay(us uint32)
}

// ROM commands understood by all 1-Wire devices.
const (
	CmdSearchROM byte = 0xF0
	CmdReadROM   byte = 0x33
	CmdMatchROM  byte = 0x55
	CmdSkipROM   byte = 0xCC
)

// Slot timings in µs, per the Maxim datasheet recommended values.
const (
	tReset    = 480 // reset low pulse
	tPresence = 70  // release to presence sample
	tRstRest  = 410 // rest of the reset high window

	tW1Low  = 6 // write-1 low pulse
	tW1High = 64
	tW0Low  = 60 // write-0 low pulse
	tW0High = 10

	tRdLow    = 6 // read slot init pulse
	tRdSample = 9 // release to sample
	tRdRest   = 55
)

type Bus struct {
	pin Pin
	clk Clock
}

func New(pin Pin, clk Clock) *Bus {
	return &Bus{pin: pin, clk: clk}
}

// Reset issues a bus reset and reports whether any device answered with a
// presence pulse. No presence is a transient condition, not fatal.
func (b *Bus) Reset() bool {
	b.pin.Low()
	b.clk.Delay(tReset)
	b.pin.Release()
	b.clk.Delay(tPresence)
	presence := !b.pin.Read() // a device pulls the line low
	b.clk.Delay(tRstRest)
	return presence
}

// WriteBit emits one write slot.
func (b *Bus) WriteBit(bit bool) {
	if bit {
		b.pin.Low()
		b.clk.Delay(tW1Low)
		b.pin.Release()
		b.clk.Delay(tW1High)
	} else {
		b.pin.Low()
		b.clk.Delay(tW0Low)
		b.pin.Release()
		b.clk.Delay(tW0High)
	}
}

// ReadBit emits one read slot and samples the line inside the valid window.
func (b *Bus) ReadBit() bool {
	b.pin.Low()
	b.clk.Delay(tRdLow)
	b.pin.Release()
	b.clk.Delay(tRdSample)
	bit := b.pin.Read()
	b.clk.Delay(tRdRest)
	return bit
}

// SendByte shifts out v, LSB first.
func (b *Bus) SendByte(v byte) {
	for i := 0; i < 8; i++ {
		b.WriteBit(v&1 != 0)
		v >>= 1
	}
}

// RecvByte shifts in one byte, LSB first.
func (b *Bus) RecvByte() byte {
	var v byte
	for i := 0; i < 8; i++ {
		v >>= 1
		if b.ReadBit() {
			v |= 0x80
		}
	}
	return v
}

// RecvBytes fills dst from the bus.
func (b *Bus) RecvBytes(dst []byte) {
	for i := range dst {
		dst[i] = b.RecvByte()
	}
}

// ResetAndWrite is the common preamble: reset, presence check, command.
func (b *Bus) ResetAndWrite(cmd byte) error {
	if !b.Reset() {
		return errcode.NoPresence
	}
	b.SendByte(cmd)
	return nil
}

// Crc8 computes the Dallas/Maxim CRC-8 (poly 0x31 reflected = 0x8C, LSB
// first) over p. A whole message including its trailing CRC byte sums to 0.
func Crc8(p []byte) byte {
	var crc byte
	for _, b := range p {
		for i := 0; i < 8; i++ {
			mix := (crc ^ b) & 1
			crc >>= 1
			if mix != 0 {
				crc ^= 0x8C
			}
			b >>= 1
		}
	}
	return crc
}
