package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Fatalf("payload: got %v want %v", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message %v on %s", got.Payload, got.Topic.String())
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("sensor", "reading"))
	conn.Publish(conn.NewMessage(T("sensor", "reading"), int32(2512), false))
	expectPayload(t, sub, int32(2512))
}

func TestRetainedReplayToLateSubscriber(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("status", "sensor"), "not_found", true))

	sub := conn.Subscribe(T("status", "sensor"))
	expectPayload(t, sub, "not_found")

	// Clearing the retained message stops further replay.
	conn.Publish(conn.NewMessage(T("status", "sensor"), nil, true))
	late := conn.Subscribe(T("status", "sensor"))
	expectNoMessage(t, late)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("config", "+"))
	s2 := c.Subscribe(T("config", "alert"))
	sNo := c.Subscribe(T("config", "sampler"))

	c.Publish(b.NewMessage(T("config", "alert"), "cfg", false))
	expectPayload(t, s1, "cfg")
	expectPayload(t, s2, "cfg")
	expectNoMessage(t, sNo)

	// "+" matches exactly one token.
	c.Publish(b.NewMessage(T("config"), "short", false))
	expectNoMessage(t, s1)
}

func TestWildcardMultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sAll := c.Subscribe(T("#"))
	sStatus := c.Subscribe(T("status", "#"))

	c.Publish(b.NewMessage(T("status", "sensor"), "ok", false))
	expectPayload(t, sAll, "ok")
	expectPayload(t, sStatus, "ok")

	c.Publish(b.NewMessage(T("sensor", "reading"), int32(100), false))
	expectPayload(t, sAll, int32(100))
	expectNoMessage(t, sStatus)
}

func TestWildcardRetainedReplay(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("config", "alert"), "a", true))
	c.Publish(b.NewMessage(T("config", "display"), "d", true))

	sub := c.Subscribe(T("config", "#"))
	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout draining retained replay")
		}
	}
	if !got["a"] || !got["d"] {
		t.Fatalf("retained replay incomplete: %v", got)
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("sensor", "reading"))
	for i := int32(0); i < 5; i++ {
		c.Publish(b.NewMessage(T("sensor", "reading"), i, false))
	}
	// Queue of 2 keeps the newest two readings.
	expectPayload(t, sub, int32(3))
	expectPayload(t, sub, int32(4))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("sensor", "reading"))
	sub.Unsubscribe()

	// Publish after unsubscribe must not panic and must not deliver.
	c.Publish(b.NewMessage(T("sensor", "reading"), int32(1), false))
	if _, ok := <-sub.Channel(); ok {
		t.Fatal("expected closed channel after unsubscribe")
	}
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b"))
	c.Disconnect()

	if _, ok := <-s1.Channel(); ok {
		t.Fatal("s1 still open")
	}
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("s2 still open")
	}
}
