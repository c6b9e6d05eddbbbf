package display

import (
	"image/color"
)

// Panel geometry (SSD1306 128x32).
const (
	Width  = 128
	Height = 32
)

// Framebuf is a 1bpp framebuffer in SSD1306 page layout (byte = 8 vertical
// pixels), so a frame transfers to the panel without reshaping. It
// implements tinygo.org/x/drivers.Displayer, which is what tinyfont draws
// against, so the same rendering runs on host and MCU.
type Framebuf struct {
	w, h int16
	buf  []byte
}

func NewFramebuf() *Framebuf {
	return &Framebuf{w: Width, h: Height, buf: make([]byte, Width*Height/8)}
}

func (f *Framebuf) Size() (x, y int16) { return f.w, f.h }

func (f *Framebuf) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return
	}
	idx := int(x) + int(y)/8*int(f.w)
	bit := byte(1) << (uint(y) % 8)
	if c.R > 0 || c.G > 0 || c.B > 0 {
		f.buf[idx] |= bit
	} else {
		f.buf[idx] &^= bit
	}
}

// Display satisfies drivers.Displayer; the frame sink owns the transfer.
func (f *Framebuf) Display() error { return nil }

// Pixel reports whether (x,y) is set. Test hook.
func (f *Framebuf) Pixel(x, y int16) bool {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return false
	}
	return f.buf[int(x)+int(y)/8*int(f.w)]&(1<<(uint(y)%8)) != 0
}

func (f *Framebuf) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Bytes exposes the raw page-layout buffer handed to the frame sink.
func (f *Framebuf) Bytes() []byte { return f.buf }
