package alert

import (
	"context"
	"time"

	"cookmon-go/bus"
	"cookmon-go/services/config"
	"cookmon-go/types"
	"cookmon-go/x/timex"
)

var (
	topicReading     = bus.T("sensor", "reading")
	topicConfigAlert = bus.T("config", config.SectionAlert)
)

// tickPeriod is finer than any pulse on/off time so the drive pattern keeps
// its shape.
const tickPeriod = 25 * time.Millisecond

// Service feeds the alert machine from bus readings. It never calls into the
// sampler or display; the reading topic is its only input.
type Service struct {
	haptic types.Haptic
}

func New(haptic types.Haptic) *Service {
	return &Service{haptic: haptic}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigAlert)
	defer cfgSub.Unsubscribe()
	readSub := conn.Subscribe(topicReading)
	defer readSub.Unsubscribe()

	m := NewMachine(config.DecodeAlert(nil), s.haptic)

	tick := time.NewTicker(tickPeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.haptic.Set(false)
			println("Info: alert service stopping")
			return
		case <-tick.C:
			m.Tick(timex.NowMs())
		case msg := <-cfgSub.Channel():
			m.SetConfig(config.DecodeAlert(msg.Payload))
			println("Info: alert config applied")
		case msg := <-readSub.Channel():
			if sample, ok := msg.Payload.(types.Sample); ok {
				m.Observe(sample, timex.NowMs())
			}
		}
	}
}

// Start launches the alert service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
