package onewire

import (
	"cookmon-go/errcode"
	"cookmon-go/types"
)

// Search enumerates every device on the bus using the Maxim ROM search
// (binary tree walk over the 64 address bits, one pass per device).
// Addresses failing their CRC are dropped; results are sorted so enumeration
// order is stable across boots.
func (b *Bus) Search() ([]types.DeviceAddress, error) {
	var (
		found           []types.DeviceAddress
		rom             types.DeviceAddress
		lastDiscrepancy int
		lastDevice      bool
		crcFailures     int
	)

	for !lastDevice {
		if !b.Reset() {
			if len(found) > 0 {
				break // devices answered earlier passes; keep what we have
			}
			return nil, errcode.NoPresence
		}
		b.SendByte(CmdSearchROM)

		lastZero := 0
		for bitN := 1; bitN <= 64; bitN++ {
			idBit := b.ReadBit()
			cmpBit := b.ReadBit()

			if idBit && cmpBit {
				// No device responded to this branch: bus glitch or the
				// device vanished mid-search.
				return found, errcode.NoPresence
			}

			var dir bool
			switch {
			case idBit != cmpBit:
				dir = idBit // all remaining devices agree
			case bitN < lastDiscrepancy:
				// discrepancy: devices disagree here, walk the recorded path
				dir = romBit(&rom, bitN)
				if !dir {
					lastZero = bitN
				}
			default:
				dir = bitN == lastDiscrepancy
				if !dir {
					lastZero = bitN
				}
			}
			setRomBit(&rom, bitN, dir)
			b.WriteBit(dir)
		}

		lastDiscrepancy = lastZero
		lastDevice = lastZero == 0

		if ValidROM(rom) {
			found = append(found, rom)
		} else {
			crcFailures++
		}
	}

	if len(found) == 0 {
		if crcFailures > 0 {
			return nil, errcode.CrcMismatch
		}
		return nil, errcode.NoPresence
	}
	sortAddresses(found)
	return found, nil
}

// ValidROM reports whether the address CRC (byte 7) matches bytes 0..6.
func ValidROM(rom types.DeviceAddress) bool {
	return Crc8(rom[:7]) == rom[7]
}

// bit numbering is 1-based to match the published algorithm.
func romBit(rom *types.DeviceAddress, n int) bool {
	i := n - 1
	return rom[i/8]&(1<<(i%8)) != 0
}

func setRomBit(rom *types.DeviceAddress, n int, v bool) {
	i := n - 1
	if v {
		rom[i/8] |= 1 << (i % 8)
	} else {
		rom[i/8] &^= 1 << (i % 8)
	}
}

// insertion sort; device counts are tiny and this avoids pulling in sort.
func sortAddresses(a []types.DeviceAddress) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].Less(a[j-1]); j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
