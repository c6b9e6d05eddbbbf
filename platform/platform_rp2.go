//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ssd1306"

	"cookmon-go/services/display"
)

// Board wiring. One probe bus, one panel, one vibration motor.
const (
	pinOneWire = machine.GP13
	pinHaptic  = machine.GP15
	pinSDA     = machine.GP4
	pinSCL     = machine.GP5
	pinUartTX  = machine.GP0
	pinUartRX  = machine.GP1

	oledAddress = 0x3C
	debugBaud   = 115200
)

// owPin drives the probe line as an emulated open drain: actively pulled
// low, released to the external pull-up otherwise.
type owPin struct {
	p machine.Pin
}

func (o *owPin) Low() {
	o.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	o.p.Low()
}

func (o *owPin) Release() {
	o.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (o *owPin) Read() bool {
	return o.p.Get()
}

type busClock struct{}

func (busClock) Delay(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

type gpioHaptic struct {
	p machine.Pin
}

func (h *gpioHaptic) Set(active bool) {
	h.p.Set(active)
}

// oledSink pushes rendered frames to the SSD1306 panel.
type oledSink struct {
	d *ssd1306.Device
}

func (s *oledSink) Push(buf []byte) error {
	if err := s.d.SetBuffer(buf); err != nil {
		return err
	}
	return s.d.Display()
}

// Setup brings up the board: debug UART, probe pin, haptic output and the
// I²C panel. Called once from main before any service starts.
func Setup() (*Hardware, error) {
	uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: debugBaud,
		TX:       pinUartTX,
		RX:       pinUartRX,
	})

	pinHaptic.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinHaptic.Low()

	machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinSDA,
		SCL:       pinSCL,
		Frequency: 400 * machine.KHz,
	})
	oled := ssd1306.NewI2C(machine.I2C0)
	oled.Configure(ssd1306.Config{
		Width:   display.Width,
		Height:  display.Height,
		Address: oledAddress,
	})
	oled.ClearDisplay()

	hw := &Hardware{
		Pin:     &owPin{p: pinOneWire},
		Clock:   busClock{},
		Display: &oledSink{d: &oled},
		Haptic:  &gpioHaptic{p: pinHaptic},
	}
	hw.Pin.Release()
	return hw, nil
}
