package display

import (
	"context"
	"time"

	"cookmon-go/bus"
	"cookmon-go/errcode"
	"cookmon-go/history"
	"cookmon-go/services/config"
	"cookmon-go/types"
	"cookmon-go/x/timex"
)

var (
	topicStatusSensor  = bus.T("status", "sensor")
	topicConfigDisplay = bus.T("config", config.SectionDisplay)
	topicConfigAlert   = bus.T("config", config.SectionAlert)
)

// Service is the display task: on its own period it snapshots history,
// renders and pushes the frame. It shares nothing with the sampler but the
// guarded history buffer and bus messages.
type Service struct {
	hist *history.Buffer
	sink types.FrameSink
}

func New(hist *history.Buffer, sink types.FrameSink) *Service {
	return &Service{hist: hist, sink: sink}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigDisplay)
	defer cfgSub.Unsubscribe()
	alertCfgSub := conn.Subscribe(topicConfigAlert)
	defer alertCfgSub.Unsubscribe()
	statusSub := conn.Subscribe(topicStatusSensor)
	defer statusSub.Unsubscribe()

	cfg := config.DecodeDisplay(nil)
	r := NewRenderer(cfg)
	status := types.SensorOK
	snap := make([]types.Sample, s.hist.Cap())

	tick := time.NewTicker(timex.MsToDuration(cfg.PeriodMs, 250*time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: display service stopping")
			return
		case msg := <-cfgSub.Channel():
			cfg = config.DecodeDisplay(msg.Payload)
			r.SetConfig(cfg)
			tick.Reset(timex.MsToDuration(cfg.PeriodMs, 250*time.Millisecond))
			println("Info: display config applied")
		case msg := <-alertCfgSub.Channel():
			r.SetThresholds(config.DecodeAlert(msg.Payload))
		case msg := <-statusSub.Channel():
			if st, ok := msg.Payload.(types.SensorStatus); ok {
				status = st
			}
		case <-tick.C:
			var fb *Framebuf
			if status == types.SensorNotFound {
				fb = r.RenderNotFound()
			} else {
				fb = r.Render(s.hist.Snapshot(snap))
			}
			if err := s.sink.Push(fb.Bytes()); err != nil {
				// previous frame stays on the panel; keep running
				println("Warn: display:", string(errcode.RenderError), err.Error())
			}
		}
	}
}

// Start launches the display service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
