package types

// Config documents decoded from the embedded device JSON and published
// per-section as retained config/<section> messages.

type SamplerConfig struct {
	PeriodMs        int `json:"period_ms"`        // >= conversion latency; default 1000
	Pin             int `json:"pin"`              // one-wire data pin (informational on host)
	DiscoverRetries int `json:"discover_retries"` // bounded boot discovery attempts, default 5
	ReadRetries     int `json:"read_retries"`     // per-cycle read retries, default 3
}

type DisplayConfig struct {
	PeriodMs         int   `json:"period_ms"`          // redraw period, default 250
	MarginCenti      int32 `json:"margin_centi"`       // head-room added above/below raw bounds
	MaxStepCenti     int32 `json:"max_step_centi"`     // per-frame scale movement limit
	DefaultSpanCenti int32 `json:"default_span_centi"` // span used for degenerate snapshots
}

type AlertConfig struct {
	UpperCenti      int32 `json:"upper_centi"`      // trigger when latest sample exceeds
	LowerCenti      int32 `json:"lower_centi"`      // trigger when latest sample falls below
	LowerEnabled    bool  `json:"lower_enabled"`
	HysteresisCenti int32 `json:"hysteresis_centi"` // inner band that must be re-entered to re-arm
	MinPulseMs      int   `json:"min_pulse_ms"`     // 200ms proved too short to move the actuator
	PulseOnMs       int   `json:"pulse_on_ms"`
	PulseOffMs      int   `json:"pulse_off_ms"`
	RearmMs         int   `json:"rearm_ms"`
}
