//go:build !rp2040 && !rp2350

package platform

import (
	"sync"

	"cookmon-go/drivers/onewire/sim"
)

// SimRig exposes the simulated hardware for scenario control: the probe to
// steer temperatures, the sink to read frames back, the haptic to observe.
type SimRig struct {
	Net    *sim.Net
	Probe  *sim.DS18B20
	Sink   *MemSink
	Haptic *RecordedHaptic
}

// MemSink keeps the most recently pushed frame.
type MemSink struct {
	mu     sync.Mutex
	frame  []byte
	pushes int
}

func (s *MemSink) Push(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = append(s.frame[:0], buf...)
	s.pushes++
	return nil
}

// Frame returns a copy of the last pushed frame, nil if none yet.
func (s *MemSink) Frame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil
	}
	out := make([]byte, len(s.frame))
	copy(out, s.frame)
	return out
}

func (s *MemSink) Pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}

// RecordedHaptic counts activations instead of shaking anything.
type RecordedHaptic struct {
	mu          sync.Mutex
	active      bool
	activations int
}

func (h *RecordedHaptic) Set(active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if active && !h.active {
		h.activations++
	}
	h.active = active
}

func (h *RecordedHaptic) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *RecordedHaptic) Activations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activations
}

// SetupSim builds the simulated rig with one probe on the wire.
func SetupSim() (*Hardware, *SimRig, error) {
	probe := sim.New(0x51D3)
	probe.SetTempCenti(2100)
	net := sim.NewNet(probe)

	rig := &SimRig{
		Net:    net,
		Probe:  probe,
		Sink:   &MemSink{},
		Haptic: &RecordedHaptic{},
	}
	hw := &Hardware{
		Pin:     net,
		Clock:   net,
		Display: rig.Sink,
		Haptic:  rig.Haptic,
	}
	return hw, rig, nil
}

// Setup is the host counterpart of the RP2 bring-up.
func Setup() (*Hardware, error) {
	hw, _, err := SetupSim()
	return hw, err
}
