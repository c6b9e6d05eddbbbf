//go:build !rp2040 && !rp2350

// Command sim runs the full firmware stack against the simulated probe and
// panel: a scripted cook ramps past the alert threshold, frames are dumped
// as ASCII and the haptic state is traced. Useful for eyeballing the graph
// scaling without flashing a board.
package main

import (
	"context"
	"time"

	"cookmon-go/bus"
	"cookmon-go/drivers/ds18b20"
	"cookmon-go/drivers/onewire"
	"cookmon-go/history"
	"cookmon-go/platform"
	"cookmon-go/services/alert"
	"cookmon-go/services/config"
	"cookmon-go/services/display"
	"cookmon-go/services/sampler"
	"cookmon-go/x/conv"
)

// profile is the scripted cook: slow climb, boil-over past the threshold,
// then cooling once the pot is pulled.
var profile = []int32{
	2100, 2500, 3200, 4400, 5800, 7300, 8600, 9200, 9600, 9800,
	9400, 8800, 7900, 6800,
}

const stepEvery = 400 * time.Millisecond

func main() {
	hw, rig, err := platform.SetupSim()
	if err != nil {
		println("Error: sim setup:", err.Error())
		return
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "cooker")
	b := bus.NewBus(8)

	hist := history.New(history.DefaultCapacity)
	dev := ds18b20.New(onewire.New(hw.Pin, hw.Clock), ds18b20.Config{
		ConversionTime: 5 * time.Millisecond, // virtual clock; no need to wait out 750ms
	})

	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	conn := b.NewConnection("sim")
	// Tighten the loops so the script finishes in a few seconds.
	conn.Publish(conn.NewMessage(bus.T("config", "sampler"), map[string]any{"period_ms": 100}, true))
	conn.Publish(conn.NewMessage(bus.T("config", "display"), map[string]any{"period_ms": 100}, true))

	_ = sampler.New(dev, hist).Start(ctx, b.NewConnection("sampler"))
	_ = display.New(hist, hw.Display).Start(ctx, b.NewConnection("display"))
	_ = alert.New(hw.Haptic).Start(ctx, b.NewConnection("alert"))

	var num [13]byte
	for _, centi := range profile {
		rig.Probe.SetTempCenti(centi)
		time.Sleep(stepEvery)
		println("[sim] temp", string(conv.Deci(num[:], centi/10)),
			"haptic", rig.Haptic.Active(), "activations", rig.Haptic.Activations())
	}

	dumpFrame(rig.Sink.Frame())
	println("[sim] frames pushed:", rig.Sink.Pushes(),
		"samples:", hist.Len(),
		"alerts:", rig.Haptic.Activations())
}

// dumpFrame prints the SSD1306 page-layout buffer as ASCII, one row per
// pixel row.
func dumpFrame(buf []byte) {
	if len(buf) != display.Width*display.Height/8 {
		println("[sim] no frame to dump")
		return
	}
	row := make([]byte, display.Width)
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if buf[x+(y/8)*display.Width]&(1<<(y%8)) != 0 {
				row[x] = '#'
			} else {
				row[x] = ' '
			}
		}
		println(string(row))
	}
}
