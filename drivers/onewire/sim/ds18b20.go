package sim

import (
	"sync"

	"cookmon-go/drivers/onewire"
	"cookmon-go/types"
)

// DS18B20 is a protocol-level model of the sensor: ROM commands, search
// participation, match addressing and scratchpad reads, fed one bit at a
// time by the Net.
type DS18B20 struct {
	net *Net
	rom types.DeviceAddress

	// Absent devices never answer presence or participate in slots.
	Absent bool

	// Conversions counts ConvertT commands accepted, for test assertions.
	Conversions int

	tempMu  sync.Mutex // tests adjust the temperature from another goroutine
	tempRaw int16
	scratch [9]byte

	// bit to flip in the next scratchpad read, -1 for none
	corruptBit int

	active   bool // participating since last reset
	selected bool // addressed by match/skip/read-rom

	phase phase

	rxByte  byte
	rxBits  int
	rxCount int // bytes consumed in multi-byte phases

	tx     []byte
	txBit  int
	txLen  int // total bits queued

	searchPos int
	searchTx  int // 0,1 = rom bit / complement pending; 2 = awaiting direction
}

type phase uint8

const (
	phaseIdle phase = iota
	phaseROMCmd
	phaseSearch
	phaseMatch
	phaseFnCmd
	phaseWriteScratch
)

// New builds a device with family code 0x28 and the given 48-bit serial.
// Power-on scratchpad holds the datasheet default of +85°C until the first
// conversion, faithfully reproduced.
func New(serial uint64) *DS18B20 {
	d := &DS18B20{corruptBit: -1}
	d.rom[0] = 0x28
	for i := 1; i <= 6; i++ {
		d.rom[i] = byte(serial)
		serial >>= 8
	}
	d.rom[7] = onewire.Crc8(d.rom[:7])
	d.tempRaw = 85 * 16
	d.latchScratch()
	return d
}

func (d *DS18B20) ROM() types.DeviceAddress { return d.rom }

// SetTempCenti sets the temperature the next conversion will report,
// rounded to the sensor's 1/16°C grid.
func (d *DS18B20) SetTempCenti(centi int32) {
	num := centi * 16
	if num >= 0 {
		num += 50
	} else {
		num -= 50
	}
	d.SetRaw(int16(num / 100))
}

// SetRaw sets the raw tick count directly.
func (d *DS18B20) SetRaw(raw int16) {
	d.tempMu.Lock()
	d.tempRaw = raw
	d.tempMu.Unlock()
}

// CorruptNextRead flips one bit (0..71) of the next scratchpad transfer,
// modelling a line glitch.
func (d *DS18B20) CorruptNextRead(bit int) { d.corruptBit = bit }

func (d *DS18B20) latchScratch() {
	d.tempMu.Lock()
	raw := d.tempRaw
	d.tempMu.Unlock()
	d.scratch[0] = byte(raw)
	d.scratch[1] = byte(raw >> 8)
	d.scratch[2] = 0x4B // TH
	d.scratch[3] = 0x46 // TL
	d.scratch[4] = 0x7F // config: 12-bit
	d.scratch[5] = 0xFF
	d.scratch[6] = 0x0C
	d.scratch[7] = 0x10
	d.scratch[8] = onewire.Crc8(d.scratch[:8])
}

// reset is called by the Net on a reset pulse; reports presence.
func (d *DS18B20) reset() bool {
	if d.Absent {
		d.active = false
		return false
	}
	d.active = true
	d.selected = false
	d.phase = phaseROMCmd
	d.rxByte, d.rxBits, d.rxCount = 0, 0, 0
	d.tx, d.txBit, d.txLen = nil, 0, 0
	d.searchPos, d.searchTx = 0, 0
	return true
}

func (d *DS18B20) transmitting() bool {
	if !d.active {
		return false
	}
	if d.phase == phaseSearch && d.searchTx < 2 {
		return true
	}
	return d.txBit < d.txLen
}

func (d *DS18B20) popTxBit() bool {
	if d.phase == phaseSearch && d.searchTx < 2 {
		bit := romBit(d.rom, d.searchPos)
		if d.searchTx == 1 {
			bit = !bit
		}
		d.searchTx++
		return bit
	}
	bit := d.tx[d.txBit/8]&(1<<(d.txBit%8)) != 0
	d.txBit++
	return bit
}

func (d *DS18B20) receiveBit(bit bool) {
	if !d.active {
		return
	}

	if d.phase == phaseSearch {
		// the direction bit: stay on the bus only if it matches our ROM
		if bit != romBit(d.rom, d.searchPos) {
			d.active = false
			return
		}
		d.searchPos++
		d.searchTx = 0
		if d.searchPos == 64 {
			// sole survivor of the pass is effectively addressed
			d.selected = true
			d.phase = phaseFnCmd
		}
		return
	}

	d.rxByte >>= 1
	if bit {
		d.rxByte |= 0x80
	}
	d.rxBits++
	if d.rxBits < 8 {
		return
	}
	b := d.rxByte
	d.rxByte, d.rxBits = 0, 0
	d.receiveByte(b)
}

func (d *DS18B20) receiveByte(b byte) {
	switch d.phase {
	case phaseROMCmd:
		switch b {
		case onewire.CmdSearchROM:
			d.phase = phaseSearch
			d.searchPos, d.searchTx = 0, 0
		case onewire.CmdMatchROM:
			d.phase = phaseMatch
			d.rxCount = 0
		case onewire.CmdSkipROM:
			d.selected = true
			d.phase = phaseFnCmd
		case onewire.CmdReadROM:
			d.selected = true
			d.queueTx(d.rom[:], -1)
			d.phase = phaseFnCmd
		default:
			d.active = false
		}

	case phaseMatch:
		if b != d.rom[d.rxCount] {
			d.active = false
			return
		}
		d.rxCount++
		if d.rxCount == 8 {
			d.selected = true
			d.phase = phaseFnCmd
		}

	case phaseFnCmd:
		if !d.selected {
			d.active = false
			return
		}
		switch b {
		case 0x44: // ConvertT
			d.Conversions++
			d.latchScratch()
		case 0xBE: // ReadScratchpad
			d.queueTx(d.scratch[:], d.corruptBit)
			d.corruptBit = -1
		case 0x4E: // WriteScratchpad: TH, TL, config
			d.phase = phaseWriteScratch
			d.rxCount = 0
		default:
			d.active = false
		}

	case phaseWriteScratch:
		switch d.rxCount {
		case 0:
			d.scratch[2] = b
		case 1:
			d.scratch[3] = b
		case 2:
			d.scratch[4] = b
		}
		d.rxCount++
		if d.rxCount == 3 {
			d.scratch[8] = onewire.Crc8(d.scratch[:8])
			d.phase = phaseFnCmd
		}
	}
}

func (d *DS18B20) queueTx(data []byte, corrupt int) {
	buf := make([]byte, len(data))
	copy(buf, data)
	if corrupt >= 0 && corrupt < 8*len(buf) {
		buf[corrupt/8] ^= 1 << (corrupt % 8)
	}
	d.tx = buf
	d.txBit = 0
	d.txLen = 8 * len(buf)
}

func romBit(rom types.DeviceAddress, pos int) bool {
	return rom[pos/8]&(1<<(pos%8)) != 0
}
