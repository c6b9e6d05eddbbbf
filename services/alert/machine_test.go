package alert

import (
	"testing"

	"cookmon-go/types"
)

// recordingHaptic logs every drive change with the virtual time it happened.
type recordingHaptic struct {
	active  bool
	changes []change
}

type change struct {
	atMs   int64
	active bool
}

func (h *recordingHaptic) Set(active bool) {
	h.active = active
	h.changes = append(h.changes, change{active: active})
}

func testCfg() types.AlertConfig {
	return types.AlertConfig{
		UpperCenti:      9500,
		HysteresisCenti: 100,
		MinPulseMs:      2000,
		PulseOnMs:       400,
		PulseOffMs:      400,
		RearmMs:         30000,
	}
}

func TestMonotonicRampTriggersExactlyOnce(t *testing.T) {
	h := &recordingHaptic{}
	m := NewMachine(testCfg(), h)

	now := int64(0)
	triggered := 0
	for _, centi := range []int32{9000, 9200, 9400, 9600, 9800, 10000} {
		before := m.State()
		m.Observe(types.Sample{TsMs: now, CentiC: centi}, now)
		if before == Idle && m.State() == Pulsing {
			triggered++
		}
		now += 1000
		m.Tick(now)
	}
	if triggered != 1 {
		t.Fatalf("triggered %d times, want exactly 1", triggered)
	}
}

func TestPulseHoldsMinimumDuration(t *testing.T) {
	h := &recordingHaptic{}
	m := NewMachine(testCfg(), h)

	m.Observe(types.Sample{CentiC: 9600}, 0)
	if m.State() != Pulsing || !h.active {
		t.Fatal("expected pulsing with haptic driven")
	}

	// Just before the minimum pulse elapses the machine is still pulsing.
	m.Tick(1999)
	if m.State() != Pulsing {
		t.Fatalf("state=%v at 1999ms, want pulsing", m.State())
	}
	m.Tick(2000)
	if m.State() != Cooldown {
		t.Fatalf("state=%v at 2000ms, want cooldown", m.State())
	}
	if h.active {
		t.Fatal("haptic still driven in cooldown")
	}
}

func TestPulsePatternToggles(t *testing.T) {
	h := &recordingHaptic{}
	m := NewMachine(testCfg(), h)

	m.Observe(types.Sample{CentiC: 9600}, 0)
	for now := int64(0); now <= 2000; now += 25 {
		m.Tick(now)
	}
	// 2000ms of 400/400 pattern: on at 0, off at 400, on at 800, off at
	// 1200, on at 1600, final off at 2000.
	ons := 0
	for _, c := range h.changes {
		if c.active {
			ons++
		}
	}
	if ons < 2 {
		t.Fatalf("pulse never toggled: %d activations", ons)
	}
	if h.active {
		t.Fatal("haptic left active after pulse")
	}
}

func TestOscillationInBandDoesNotRetrigger(t *testing.T) {
	h := &recordingHaptic{}
	cfg := testCfg()
	cfg.RearmMs = 1000
	m := NewMachine(cfg, h)

	m.Observe(types.Sample{CentiC: 9600}, 0)
	for now := int64(0); now <= 2000; now += 100 {
		m.Tick(now)
	}
	if m.State() != Cooldown {
		t.Fatalf("state=%v want cooldown", m.State())
	}

	// Oscillate within the hysteresis band well past the re-arm interval.
	vals := []int32{9480, 9520, 9460, 9540, 9410}
	now := int64(2100)
	for _, v := range vals {
		m.Observe(types.Sample{CentiC: v}, now)
		if m.State() == Pulsing {
			t.Fatalf("re-triggered at %d centi during cooldown band", v)
		}
		now += 1000
	}
	if m.State() != Cooldown {
		t.Fatalf("state=%v, band oscillation must hold cooldown", m.State())
	}

	// Dropping below the inner threshold re-arms...
	m.Observe(types.Sample{CentiC: 9300}, now)
	if m.State() != Idle {
		t.Fatalf("state=%v want idle after leaving band", m.State())
	}
	// ...and a fresh crossing triggers again.
	m.Observe(types.Sample{CentiC: 9700}, now+1000)
	if m.State() != Pulsing {
		t.Fatalf("state=%v want pulsing on fresh crossing", m.State())
	}
}

func TestRearmWaitsForInterval(t *testing.T) {
	h := &recordingHaptic{}
	cfg := testCfg()
	cfg.RearmMs = 5000
	m := NewMachine(cfg, h)

	m.Observe(types.Sample{CentiC: 9600}, 0)
	m.Tick(2000) // -> cooldown at 2000, re-arm at 7000

	// Value well out of the band, but the interval has not elapsed.
	m.Observe(types.Sample{CentiC: 8000}, 3000)
	if m.State() != Cooldown {
		t.Fatalf("state=%v, re-arm interval not elapsed", m.State())
	}
	m.Observe(types.Sample{CentiC: 8000}, 7100)
	if m.State() != Idle {
		t.Fatalf("state=%v want idle after interval + out of band", m.State())
	}
}

func TestLowerThreshold(t *testing.T) {
	h := &recordingHaptic{}
	cfg := testCfg()
	cfg.LowerEnabled = true
	cfg.LowerCenti = 500
	m := NewMachine(cfg, h)

	m.Observe(types.Sample{CentiC: 400}, 0)
	if m.State() != Pulsing {
		t.Fatalf("state=%v want pulsing on lower crossing", m.State())
	}
}
