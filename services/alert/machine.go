// Package alert decides when the operator gets a haptic nudge: a state
// machine triggered by threshold crossings, with a minimum pulse long enough
// to be mechanically effective and a cooldown plus hysteresis band so a
// reading oscillating near the threshold cannot chatter the actuator.
package alert

import (
	"cookmon-go/types"
)

type State uint8

const (
	Idle State = iota
	Pulsing
	Cooldown
)

func (s State) String() string {
	switch s {
	case Pulsing:
		return "pulsing"
	case Cooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

// direction of the crossing that armed the current pulse/cooldown
type direction uint8

const (
	dirNone direction = iota
	dirHigh           // exceeded the upper bound
	dirLow            // fell below the lower bound
)

// Machine is the alert state machine. Not synchronized; it lives on the
// alert service goroutine and is clocked by Observe and Tick.
type Machine struct {
	cfg    types.AlertConfig
	haptic types.Haptic

	state      State
	dir        direction
	lastCenti  int32
	haveSample bool

	pulseUntilMs int64
	rearmAtMs    int64

	driveOn      bool
	nextToggleMs int64
}

func NewMachine(cfg types.AlertConfig, haptic types.Haptic) *Machine {
	return &Machine{cfg: cfg, haptic: haptic}
}

func (m *Machine) State() State { return m.state }

// SetConfig applies a new config. An in-flight pulse keeps its deadline.
func (m *Machine) SetConfig(cfg types.AlertConfig) { m.cfg = cfg }

// Observe feeds the latest sample. Crossing a threshold in the alerting
// direction while Idle starts a pulse; during Cooldown it only updates the
// value used to check the hysteresis band.
func (m *Machine) Observe(s types.Sample, nowMs int64) {
	m.lastCenti = s.CentiC
	m.haveSample = true

	if m.state != Idle {
		m.advance(nowMs)
		return
	}
	switch {
	case s.CentiC >= m.cfg.UpperCenti:
		m.trigger(dirHigh, nowMs)
	case m.cfg.LowerEnabled && s.CentiC <= m.cfg.LowerCenti:
		m.trigger(dirLow, nowMs)
	}
}

// Tick drives the pulse pattern and time-based transitions. Call it at a
// granularity finer than the pulse on/off times.
func (m *Machine) Tick(nowMs int64) { m.advance(nowMs) }

func (m *Machine) trigger(d direction, nowMs int64) {
	m.state = Pulsing
	m.dir = d
	m.pulseUntilMs = nowMs + int64(m.cfg.MinPulseMs)
	m.driveOn = true
	m.nextToggleMs = nowMs + int64(m.cfg.PulseOnMs)
	m.haptic.Set(true)
}

func (m *Machine) advance(nowMs int64) {
	switch m.state {
	case Pulsing:
		if nowMs >= m.pulseUntilMs {
			m.driveOn = false
			m.haptic.Set(false)
			m.state = Cooldown
			m.rearmAtMs = nowMs + int64(m.cfg.RearmMs)
			return
		}
		// 200ms of continuous drive proved too weak to move the actuator,
		// so the pulse is an on/off pattern for its whole duration.
		if nowMs >= m.nextToggleMs {
			m.driveOn = !m.driveOn
			m.haptic.Set(m.driveOn)
			if m.driveOn {
				m.nextToggleMs = nowMs + int64(m.cfg.PulseOnMs)
			} else {
				m.nextToggleMs = nowMs + int64(m.cfg.PulseOffMs)
			}
		}

	case Cooldown:
		if nowMs < m.rearmAtMs {
			return
		}
		// Re-arm only after the reading has come back through the inner
		// threshold; oscillation inside the band keeps us in Cooldown.
		if !m.haveSample || m.insideBand() {
			return
		}
		m.state = Idle
		m.dir = dirNone
	}
}

// insideBand reports whether the value is still on the alert side of the
// hysteresis band for the direction that triggered.
func (m *Machine) insideBand() bool {
	switch m.dir {
	case dirHigh:
		return m.lastCenti > m.cfg.UpperCenti-m.cfg.HysteresisCenti
	case dirLow:
		return m.lastCenti < m.cfg.LowerCenti+m.cfg.HysteresisCenti
	default:
		return false
	}
}
