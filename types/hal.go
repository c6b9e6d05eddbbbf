package types

// Collaborator interfaces the platform layer implements. The core drives
// these, never a pin or bus controller directly.

// Haptic is the alert actuator (vibration motor or buzzer driver stage).
type Haptic interface {
	Set(active bool)
}

// FrameSink accepts a rendered monochrome framebuffer (SSD1306 page layout,
// width x height/8 bytes) and transfers it to the physical panel.
type FrameSink interface {
	Push(buf []byte) error
}
