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
)

// deviceID selects the embedded config document.
const deviceID = "cooker"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	hw, err := platform.Setup()
	if err != nil {
		println("Error: platform setup:", err.Error())
		for {
			time.Sleep(time.Hour) // nothing to run without hardware
		}
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	println("[main] bootstrapping bus …")
	b := bus.NewBus(4)

	hist := history.New(history.DefaultCapacity)
	dev := ds18b20.New(onewire.New(hw.Pin, hw.Clock))

	println("[main] starting services …")
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	if err := sampler.New(dev, hist).Start(ctx, b.NewConnection("sampler")); err != nil {
		println("Error: sampler start:", err.Error())
	}
	if err := display.New(hist, hw.Display).Start(ctx, b.NewConnection("display")); err != nil {
		println("Error: display start:", err.Error())
	}
	if err := alert.New(hw.Haptic).Start(ctx, b.NewConnection("alert")); err != nil {
		println("Error: alert start:", err.Error())
	}

	println("[main] running")
	select {}
}
