package display

import (
	"cookmon-go/types"
	"cookmon-go/x/mathx"
)

// Scale is the vertical axis range of the current frame, centi-°C.
type Scale struct {
	MinC, MaxC int32
}

// Contains reports v within the scale.
func (s Scale) Contains(v int32) bool { return v >= s.MinC && v <= s.MaxC }

// scaler smooths the axis range. Recomputing raw min/max every frame makes
// the axis jump when an outlier enters or leaves the short window; instead
// the displayed bounds expand immediately (every plotted sample must stay in
// range) but contract by at most MaxStepCenti per frame, so the axis follows
// long-term drift without frame-to-frame jitter.
type scaler struct {
	cfg  types.DisplayConfig
	cur  Scale
	init bool
}

func newScaler(cfg types.DisplayConfig) *scaler {
	return &scaler{cfg: cfg}
}

func (sc *scaler) setConfig(cfg types.DisplayConfig) { sc.cfg = cfg }

// update recomputes the scale for a snapshot and returns it.
func (sc *scaler) update(snap []types.Sample) Scale {
	if len(snap) == 0 {
		if !sc.init {
			// nothing plotted yet: room-temperature axis until data arrives
			sc.cur = Scale{MinC: 2000, MaxC: 2500}
			sc.init = true
		}
		return sc.cur
	}

	lo, hi := snap[0].CentiC, snap[0].CentiC
	for _, s := range snap[1:] {
		lo = mathx.Min(lo, s.CentiC)
		hi = mathx.Max(hi, s.CentiC)
	}

	span := sc.cfg.DefaultSpanCenti
	if span <= 0 {
		span = 100
	}
	if lo == hi {
		// degenerate: a fixed default span centered on the sample
		lo -= span / 2
		hi += span / 2
	}
	lo -= sc.cfg.MarginCenti
	hi += sc.cfg.MarginCenti

	if !sc.init {
		sc.cur = Scale{MinC: lo, MaxC: hi}
		sc.init = true
		return sc.cur
	}

	step := sc.cfg.MaxStepCenti
	if step <= 0 {
		step = 100
	}

	// Expand instantly so the invariant min <= samples <= max holds;
	// contract rate-limited so a departing outlier cannot snap the axis.
	if lo < sc.cur.MinC {
		sc.cur.MinC = lo
	} else {
		sc.cur.MinC = mathx.Min(sc.cur.MinC+step, lo)
	}
	if hi > sc.cur.MaxC {
		sc.cur.MaxC = hi
	} else {
		sc.cur.MaxC = mathx.Max(sc.cur.MaxC-step, hi)
	}

	// Keep a sane span even if config produces a collapsed range.
	if sc.cur.MaxC-sc.cur.MinC < 10 {
		mid := (sc.cur.MaxC + sc.cur.MinC) / 2
		sc.cur.MinC = mid - span/2
		sc.cur.MaxC = mid + span/2
	}
	return sc.cur
}
