// Package sampler owns the temperature acquisition loop: sensor discovery,
// the periodic convert/collect cycle, history writes, and the retained
// status/sensor topic other services key off. All faults are transient from
// its point of view; the loop never terminates.
package sampler

import (
	"context"
	"time"

	"cookmon-go/bus"
	"cookmon-go/drivers/ds18b20"
	"cookmon-go/errcode"
	"cookmon-go/history"
	"cookmon-go/services/config"
	"cookmon-go/types"
	"cookmon-go/x/conv"
	"cookmon-go/x/timex"
)

var (
	topicReading       = bus.T("sensor", "reading")
	topicStatusSensor  = bus.T("status", "sensor")
	topicConfigSampler = bus.T("config", config.SectionSampler)
)

// maxReadFailures is how many consecutive failed cycles are tolerated
// before the probe is considered unplugged and discovery starts over.
const maxReadFailures = 3

// rediscoverDelay paces discovery attempts while no sensor answers, so a
// probe-less board is not hammering the bus.
const rediscoverDelay = 2 * time.Second

// Service runs the sampling loop against a constructed device handle.
type Service struct {
	dev  *ds18b20.Device
	hist *history.Buffer
}

func New(dev *ds18b20.Device, hist *history.Buffer) *Service {
	return &Service{dev: dev, hist: hist}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigSampler)
	defer cfgSub.Unsubscribe()

	cfg := config.DecodeSampler(nil)

	var (
		addr     types.DeviceAddress
		haveAddr bool
		failures int
		status   types.SensorStatus
		hexbuf   [16]byte
	)

	tick := time.NewTicker(timex.MsToDuration(cfg.PeriodMs, time.Second))
	defer tick.Stop()

	publishStatus := func(st types.SensorStatus) {
		if st == status {
			return
		}
		status = st
		conn.Publish(conn.NewMessage(topicStatusSensor, st, true))
		println("Info: sampler: sensor", string(st))
	}

	cycle := func() {
		if !haveAddr {
			found, err := s.dev.Discover()
			if err != nil || len(found) == 0 {
				publishStatus(types.SensorNotFound)
				// stretch the period while searching
				tick.Reset(rediscoverDelay)
				return
			}
			addr = found[0]
			haveAddr = true
			failures = 0
			tick.Reset(timex.MsToDuration(cfg.PeriodMs, time.Second))
			println("Info: sampler: using sensor", string(conv.BytesHex(hexbuf[:], addr[:])))
		}

		sample, err := s.dev.Read(addr)
		if err != nil {
			failures++
			println("Warn: sampler: read failed:", err.Error())
			if failures >= maxReadFailures || errcode.Is(err, errcode.NoPresence) {
				// probe likely unplugged; last good samples stay in
				// history, discovery resumes next tick
				haveAddr = false
				publishStatus(types.SensorNotFound)
				tick.Reset(rediscoverDelay)
			} else {
				publishStatus(types.SensorDegraded)
			}
			return
		}
		failures = 0
		publishStatus(types.SensorOK)
		s.hist.Push(sample)
		conn.Publish(conn.NewMessage(topicReading, sample, false))
	}

	cycle() // first reading without waiting out a full period

	for {
		select {
		case <-ctx.Done():
			println("Info: sampler service stopping")
			return
		case msg := <-cfgSub.Channel():
			cfg = config.DecodeSampler(msg.Payload)
			tick.Reset(timex.MsToDuration(cfg.PeriodMs, time.Second))
			println("Info: sampler config applied")
		case <-tick.C:
			cycle()
		}
	}
}

// Start launches the sampling loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
