// Package sim emulates a 1-Wire net with DS18B20 slaves at the pin level.
// It implements onewire.Pin and onewire.Clock over a virtual microsecond
// clock: Delay advances time, Low/Release are classified into reset pulses
// and bit slots by their measured low duration, exactly as a real slave
// decodes the line. Driver code runs against it unchanged, so the whole
// protocol stack above the pin is exercised for real.
package sim

// Net is the shared line plus attached devices. Open drain: the line reads
// low if the master or any transmitting device drives low.
type Net struct {
	nowUs         uint64
	devs          []*DS18B20
	masterLow     bool
	lowStart      uint64
	presenceUntil uint64

	// current read-slot output, valid until slotEnd
	slotBit   bool
	slotValid bool
	slotEnd   uint64
}

func NewNet(devs ...*DS18B20) *Net {
	n := &Net{devs: devs}
	for _, d := range devs {
		d.net = n
	}
	return n
}

// Attach adds a device mid-test (hotplug).
func (n *Net) Attach(d *DS18B20) {
	d.net = n
	n.devs = append(n.devs, d)
}

// NowUs exposes the virtual clock to tests.
func (n *Net) NowUs() uint64 { return n.nowUs }

// --- onewire.Clock ---

func (n *Net) Delay(us uint32) { n.nowUs += uint64(us) }

// --- onewire.Pin ---

func (n *Net) Low() {
	n.masterLow = true
	n.lowStart = n.nowUs
}

func (n *Net) Release() {
	if !n.masterLow {
		return
	}
	n.masterLow = false
	d := n.nowUs - n.lowStart

	if d >= 480 {
		// reset pulse
		present := false
		for _, dev := range n.devs {
			if dev.reset() {
				present = true
			}
		}
		n.slotValid = false
		if present {
			// presence pulse occupies the detect window after release
			n.presenceUntil = n.nowUs + 240
		}
		return
	}

	// A slot starts at the falling edge. If any active device has bits to
	// transmit this is a read slot; otherwise the master wrote a bit whose
	// value is decided by the low time (short = 1, long = 0).
	if n.anyTransmitting() {
		bit := true
		for _, dev := range n.devs {
			if dev.transmitting() {
				if !dev.popTxBit() {
					bit = false // wired-AND
				}
			}
		}
		n.slotBit = bit
		n.slotValid = true
		n.slotEnd = n.lowStart + 60
		return
	}

	bit := d <= 15
	for _, dev := range n.devs {
		dev.receiveBit(bit)
	}
}

func (n *Net) Read() bool {
	if n.masterLow {
		return false
	}
	if n.nowUs < n.presenceUntil {
		return false
	}
	if n.slotValid && n.nowUs < n.slotEnd {
		return n.slotBit
	}
	return true // pull-up
}

func (n *Net) anyTransmitting() bool {
	for _, dev := range n.devs {
		if dev.transmitting() {
			return true
		}
	}
	return false
}
