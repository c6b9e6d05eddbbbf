// Package config publishes the embedded device configuration over the bus.
// Each known section (sampler, display, alert) goes out as a retained
// `config/<section>` message at boot, so services read their section whenever
// they start and pick up replacements if one is ever republished. Decoders
// for the typed section documents live in decode.go.
package config

import (
	"context"
	"errors"

	"cookmon-go/bus"

	"github.com/andreyvit/tinyjson"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key holding the device ID
)

// Section names published under config/.
const (
	SectionSampler = "sampler"
	SectionDisplay = "display"
	SectionAlert   = "alert"
)

// sections is the publish order; unknown top-level keys in the embedded
// document are skipped rather than leaked onto the bus.
var sections = []string{SectionSampler, SectionDisplay, SectionAlert}

// EmbeddedConfigLookup resolves a device ID to its raw JSON document.
// Overridable so tests can inject documents without touching flash data.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	doc, ok := val.(map[string]any)
	if !ok {
		return errors.New("embedded config is not a JSON object")
	}

	for _, name := range sections {
		section, ok := doc[name]
		if !ok {
			continue // services fall back to their decode defaults
		}
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, name),
			Payload:  section,
			Retained: true,
		})
	}
	return nil
}

// Start publishes the device's config sections in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("Warn: config:", err.Error())
		}
	}()
}
