// Package history is the shared rolling store of temperature samples:
// written by the sampler task, snapshotted by the display task.
//
// The mutex is held only across the push or the snapshot copy, never across
// sensor or display I/O, so the display task is never blocked on bus timing.
// Samples are immutable once pushed; the store only appends and evicts.
package history

import (
	"sync"

	"cookmon-go/types"
	"cookmon-go/x/ringbuf"
)

// DefaultCapacity matches the graph area of a 128x32 panel with a 32px
// text column: one sample per pixel column.
const DefaultCapacity = 96

type Buffer struct {
	mu   sync.Mutex
	ring *ringbuf.Ring[types.Sample]
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{ring: ringbuf.New[types.Sample](capacity)}
}

func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Cap()
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Len()
}

// Push appends s, evicting the oldest sample once at capacity.
// Timestamps are expected non-decreasing; a stale timestamp is coerced
// forward so the ordering invariant holds even if the clock hiccups.
func (b *Buffer) Push(s types.Sample) {
	b.mu.Lock()
	if head, ok := b.ring.Head(); ok && s.TsMs < head.TsMs {
		s.TsMs = head.TsMs
	}
	b.ring.Push(s)
	b.mu.Unlock()
}

// Last returns the newest sample.
func (b *Buffer) Last() (types.Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Head()
}

// Snapshot copies current contents into dst oldest-first and returns the
// filled prefix. dst should have capacity Cap(); the copy is consistent
// (no partially written slot is ever observed).
func (b *Buffer) Snapshot(dst []types.Sample) []types.Sample {
	b.mu.Lock()
	n := b.ring.CopyTo(dst)
	b.mu.Unlock()
	return dst[:n]
}

// Reset empties the store (sensor re-discovery after a long outage).
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.ring.Reset()
	b.mu.Unlock()
}
