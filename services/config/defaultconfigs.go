package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgCooker = `{
  "sampler": {
      "period_ms": 1000,
      "pin": 13,
      "discover_retries": 5,
      "read_retries": 3
  },
  "display": {
      "period_ms": 250,
      "margin_centi": 50,
      "max_step_centi": 100,
      "default_span_centi": 100
  },
  "alert": {
      "upper_centi": 9500,
      "lower_enabled": false,
      "hysteresis_centi": 100,
      "min_pulse_ms": 2000,
      "pulse_on_ms": 400,
      "pulse_off_ms": 400,
      "rearm_ms": 30000
  }
}`

var embeddedConfigs = map[string][]byte{
	"cooker": []byte(cfgCooker),
}
