// Package platform is the build-tagged bring-up layer: it hands main the
// hardware handles the services need and nothing else. RP2 builds talk to
// real pins and the I²C panel; host builds get a simulated probe, an
// in-memory panel and a recorded haptic so the whole stack runs in tests
// and in cmd/sim.
package platform

import (
	"cookmon-go/drivers/onewire"
	"cookmon-go/types"
)

// Hardware is what Setup hands back to main.
type Hardware struct {
	Pin     onewire.Pin
	Clock   onewire.Clock
	Display types.FrameSink
	Haptic  types.Haptic
}
