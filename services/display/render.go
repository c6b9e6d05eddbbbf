package display

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"cookmon-go/types"
	"cookmon-go/x/conv"
	"cookmon-go/x/mathx"
)

// WText is the left text column width; the graph occupies the rest, one
// sample per pixel column.
const WText = 32

// GraphWidth is the number of plottable sample columns.
const GraphWidth = Width - WText

var (
	on   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	font = &proggy.TinySZ8pt7b
)

// Renderer rasterizes a history snapshot into the framebuffer: bounds and
// current value in the text column, the polyline to the right, dashed
// overlay lines for alert thresholds.
type Renderer struct {
	fb         *Framebuf
	sc         *scaler
	thresh     types.AlertConfig
	haveThresh bool

	num [13]byte // scratch for fixed-point formatting
}

func NewRenderer(cfg types.DisplayConfig) *Renderer {
	return &Renderer{fb: NewFramebuf(), sc: newScaler(cfg)}
}

func (r *Renderer) SetConfig(cfg types.DisplayConfig) { r.sc.setConfig(cfg) }

func (r *Renderer) SetThresholds(cfg types.AlertConfig) {
	r.thresh = cfg
	r.haveThresh = true
}
func (r *Renderer) Frame() *Framebuf                    { return r.fb }

// Scale returns the axis range of the last rendered frame. Test hook.
func (r *Renderer) Scale() Scale { return r.sc.cur }

// RenderNotFound draws the defined sensor-missing frame.
func (r *Renderer) RenderNotFound() *Framebuf {
	r.fb.Clear()
	tinyfont.WriteLine(r.fb, font, 10, 14, "no sensor", on)
	tinyfont.WriteLine(r.fb, font, 10, 28, "check probe", on)
	return r.fb
}

// Render rasterizes the snapshot (oldest first) and returns the frame.
func (r *Renderer) Render(snap []types.Sample) *Framebuf {
	scale := r.sc.update(snap)
	r.fb.Clear()

	// Text column: upper bound top, current value middle, lower bound bottom
	// (same layout as the panel always had).
	r.writeDeci(scale.MaxC/10, 8)
	if len(snap) > 0 {
		r.writeDeci(snap[len(snap)-1].CentiC/10, 20)
	}
	r.writeDeci(scale.MinC/10, 31)

	if r.haveThresh {
		r.drawThreshold(r.thresh.UpperCenti, scale)
		if r.thresh.LowerEnabled {
			// 0 centi is a legitimate lower threshold (ice bath)
			r.drawThreshold(r.thresh.LowerCenti, scale)
		}
	}

	// Polyline: consecutive columns joined by a vertical run, which is all
	// a 1px-per-sample plot needs.
	prevY := int16(-1)
	start := 0
	if len(snap) > GraphWidth {
		start = len(snap) - GraphWidth
	}
	for i, s := range snap[start:] {
		x := int16(WText + i)
		y := int16(mathx.MapI32(s.CentiC, scale.MinC, scale.MaxC, Height-1, 1))
		r.fb.SetPixel(x, y, on)
		if prevY >= 0 {
			step := int16(1)
			if y < prevY {
				step = -1
			}
			for yy := prevY + step; yy != y; yy += step {
				r.fb.SetPixel(x, yy, on)
			}
		}
		prevY = y
	}
	return r.fb
}

// drawThreshold overlays a dashed line when the threshold is on-scale.
func (r *Renderer) drawThreshold(centi int32, scale Scale) {
	if !scale.Contains(centi) {
		return
	}
	y := int16(mathx.MapI32(centi, scale.MinC, scale.MaxC, Height-1, 1))
	for x := int16(WText); x < Width; x += 4 {
		r.fb.SetPixel(x, y, on)
		r.fb.SetPixel(x+1, y, on)
	}
}

func (r *Renderer) writeDeci(deci int32, baseline int16) {
	s := conv.Deci(r.num[:], deci)
	tinyfont.WriteLine(r.fb, font, 0, baseline, string(s), on)
}
