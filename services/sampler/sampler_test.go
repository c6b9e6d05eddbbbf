package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"cookmon-go/bus"
	"cookmon-go/drivers/ds18b20"
	"cookmon-go/drivers/onewire"
	"cookmon-go/drivers/onewire/sim"
	"cookmon-go/history"
	"cookmon-go/services/alert"
	"cookmon-go/services/display"
	"cookmon-go/types"
)

type countingSink struct {
	mu     sync.Mutex
	pushes int
	blank  bool
}

func (s *countingSink) Push(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes++
	s.blank = true
	for _, b := range buf {
		if b != 0 {
			s.blank = false
			break
		}
	}
	return nil
}

type recordedHaptic struct {
	mu          sync.Mutex
	activations int
	active      bool
}

func (h *recordedHaptic) Set(active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if active && !h.active {
		h.activations++
	}
	h.active = active
}

func (h *recordedHaptic) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activations
}

func fastCfg() ds18b20.Config {
	return ds18b20.Config{
		ConversionTime:  time.Millisecond,
		ReadRetries:     3,
		DiscoverRetries: 2,
		RetryBackoff:    time.Millisecond,
	}
}

func publishConfigs(conn *bus.Connection) {
	conn.Publish(conn.NewMessage(bus.T("config", "sampler"), map[string]any{
		"period_ms": float64(30),
	}, true))
	conn.Publish(conn.NewMessage(bus.T("config", "display"), map[string]any{
		"period_ms": float64(30),
	}, true))
	// Long on-time keeps the haptic solid through the pulse, so activation
	// count equals trigger count.
	conn.Publish(conn.NewMessage(bus.T("config", "alert"), map[string]any{
		"upper_centi":  float64(9500),
		"min_pulse_ms": float64(80),
		"pulse_on_ms":  float64(10000),
		"rearm_ms":     float64(60000),
	}, true))
}

// Five increasing temperatures ride through the whole stack: sampler reads
// the simulated probe, history and the reading topic feed the alert
// service, and the threshold crossing fires the haptic exactly once.
func TestRampCrossingEndToEnd(t *testing.T) {
	probe := sim.New(0xC00C1E)
	probe.SetTempCenti(9100)
	net := sim.NewNet(probe)
	dev := ds18b20.New(onewire.New(net, net), fastCfg())

	b := bus.NewBus(16)
	hist := history.New(64)
	haptic := &recordedHaptic{}

	pub := b.NewConnection("test")
	publishConfigs(pub)
	readings := pub.Subscribe(bus.T("sensor", "reading"))
	defer readings.Unsubscribe()

	sink := &countingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := alert.New(haptic).Start(ctx, b.NewConnection("alert")); err != nil {
		t.Fatal(err)
	}
	if err := display.New(hist, sink).Start(ctx, b.NewConnection("display")); err != nil {
		t.Fatal(err)
	}
	if err := New(dev, hist).Start(ctx, b.NewConnection("sampler")); err != nil {
		t.Fatal(err)
	}

	ramp := []int32{9100, 9300, 9500, 9700, 9900}
	next := 1
	deadline := time.After(5 * time.Second)
	for {
		var got types.Sample
		select {
		case msg := <-readings.Channel():
			got = msg.Payload.(types.Sample)
		case <-deadline:
			t.Fatal("timed out waiting for the ramp to complete")
		}
		// Advance the probe once the current step has been observed; the
		// next conversion latches the new value.
		if next < len(ramp) && got.CentiC == ramp[next-1] {
			probe.SetTempCenti(ramp[next])
			next++
		}
		if got.CentiC >= ramp[len(ramp)-1] {
			break
		}
	}
	time.Sleep(100 * time.Millisecond) // let the alert tick pick up the last reading

	if n := haptic.count(); n != 1 {
		t.Fatalf("haptic activations = %d, want exactly 1", n)
	}

	snap := hist.Snapshot(make([]types.Sample, hist.Cap()))
	if len(snap) < len(ramp) {
		t.Fatalf("history holds %d samples, want >= %d", len(snap), len(ramp))
	}
	var distinct []int32
	for _, s := range snap {
		if len(distinct) == 0 || distinct[len(distinct)-1] != s.CentiC {
			distinct = append(distinct, s.CentiC)
		}
	}
	if len(distinct) != len(ramp) {
		t.Fatalf("distinct temperatures %v, want %v", distinct, ramp)
	}
	for i, c := range distinct {
		if c != ramp[i] {
			t.Fatalf("distinct temperatures %v, want %v", distinct, ramp)
		}
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].TsMs < snap[i-1].TsMs {
			t.Fatalf("timestamps regress at %d: %d < %d", i, snap[i].TsMs, snap[i-1].TsMs)
		}
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.pushes == 0 {
		t.Fatal("no frames rendered during the ramp")
	}
	if sink.blank {
		t.Fatal("final frame is blank")
	}
}

// A board with no probe attached must come up, say so, and keep searching
// rather than halt.
func TestNoSensorBoot(t *testing.T) {
	net := sim.NewNet()
	dev := ds18b20.New(onewire.New(net, net), fastCfg())

	b := bus.NewBus(8)
	hist := history.New(16)
	haptic := &recordedHaptic{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := alert.New(haptic).Start(ctx, b.NewConnection("alert")); err != nil {
		t.Fatal(err)
	}
	if err := New(dev, hist).Start(ctx, b.NewConnection("sampler")); err != nil {
		t.Fatal(err)
	}

	sub := b.NewConnection("test").Subscribe(bus.T("status", "sensor"))
	defer sub.Unsubscribe()

	select {
	case msg := <-sub.Channel():
		if st := msg.Payload.(types.SensorStatus); st != types.SensorNotFound {
			t.Fatalf("status = %q, want %q", st, types.SensorNotFound)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no sensor status published")
	}
	if hist.Len() != 0 {
		t.Fatalf("history holds %d samples with no sensor", hist.Len())
	}
	if n := haptic.count(); n != 0 {
		t.Fatalf("haptic activated %d times with no sensor", n)
	}
}

func TestStatusOkPublishedRetained(t *testing.T) {
	probe := sim.New(0xBEEF)
	probe.SetTempCenti(2500)
	net := sim.NewNet(probe)
	dev := ds18b20.New(onewire.New(net, net), fastCfg())

	b := bus.NewBus(8)
	hist := history.New(16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := New(dev, hist).Start(ctx, b.NewConnection("sampler")); err != nil {
		t.Fatal(err)
	}

	// Late subscriber sees the retained status.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("retained ok status never observed")
		case <-time.After(20 * time.Millisecond):
		}
		sub := b.NewConnection("late").Subscribe(bus.T("status", "sensor"))
		select {
		case msg := <-sub.Channel():
			if st := msg.Payload.(types.SensorStatus); st == types.SensorOK {
				sub.Unsubscribe()
				return
			}
		default:
		}
		sub.Unsubscribe()
	}
}
