package config

import (
	"cookmon-go/types"
)

// Decoding of config section payloads (map[string]any from tinyjson) into
// the typed documents services consume. Missing or malformed keys fall back
// to defaults, so a partial embedded config still boots a working device.

func DecodeSampler(v any) types.SamplerConfig {
	m, _ := v.(map[string]any)
	return types.SamplerConfig{
		PeriodMs:        intOr(m, "period_ms", 1000),
		Pin:             intOr(m, "pin", 13),
		DiscoverRetries: intOr(m, "discover_retries", 5),
		ReadRetries:     intOr(m, "read_retries", 3),
	}
}

func DecodeDisplay(v any) types.DisplayConfig {
	m, _ := v.(map[string]any)
	return types.DisplayConfig{
		PeriodMs:         intOr(m, "period_ms", 250),
		MarginCenti:      int32Or(m, "margin_centi", 50),
		MaxStepCenti:     int32Or(m, "max_step_centi", 100),
		DefaultSpanCenti: int32Or(m, "default_span_centi", 100),
	}
}

func DecodeAlert(v any) types.AlertConfig {
	m, _ := v.(map[string]any)
	return types.AlertConfig{
		UpperCenti:      int32Or(m, "upper_centi", 9500),
		LowerCenti:      int32Or(m, "lower_centi", 0),
		LowerEnabled:    boolOr(m, "lower_enabled", false),
		HysteresisCenti: int32Or(m, "hysteresis_centi", 100),
		MinPulseMs:      intOr(m, "min_pulse_ms", 2000),
		PulseOnMs:       intOr(m, "pulse_on_ms", 400),
		PulseOffMs:      intOr(m, "pulse_off_ms", 400),
		RearmMs:         intOr(m, "rearm_ms", 30000),
	}
}

func intOr(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}

func int32Or(m map[string]any, key string, def int32) int32 {
	return int32(intOr(m, key, int(def)))
}

func boolOr(m map[string]any, key string, def bool) bool {
	if m == nil {
		return def
	}
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}
