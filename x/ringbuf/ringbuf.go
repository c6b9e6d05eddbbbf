// Package ringbuf provides a fixed-capacity ring that overwrites its oldest
// element once full. Storage is allocated once at construction; Push never
// allocates, so it is safe on the firmware hot path.
package ringbuf

// Ring holds at most Cap() elements in insertion order.
// Not synchronized; callers own the locking discipline.
type Ring[T any] struct {
	buf   []T
	start int // index of the oldest element
	size  int
}

func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int   { return len(r.buf) }
func (r *Ring[T]) Len() int   { return r.size }
func (r *Ring[T]) Full() bool { return r.size == len(r.buf) }

// Push appends v, evicting the oldest element when full.
// It reports the evicted element, if any.
func (r *Ring[T]) Push(v T) (evicted T, wasFull bool) {
	end := (r.start + r.size) % len(r.buf)
	if r.size == len(r.buf) {
		evicted = r.buf[r.start]
		wasFull = true
		r.start = (r.start + 1) % len(r.buf)
	} else {
		r.size++
	}
	r.buf[end] = v
	return evicted, wasFull
}

// Head returns the newest element.
func (r *Ring[T]) Head() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.start+r.size-1)%len(r.buf)], true
}

// Tail returns the oldest element.
func (r *Ring[T]) Tail() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[r.start], true
}

// At returns the element at index i, oldest-first. i must be in [0, Len()).
func (r *Ring[T]) At(i int) T {
	return r.buf[(r.start+i)%len(r.buf)]
}

// CopyTo copies up to len(dst) elements into dst oldest-first and returns
// the count copied.
func (r *Ring[T]) CopyTo(dst []T) int {
	n := r.size
	if n > len(dst) {
		n = len(dst)
	}
	first := len(r.buf) - r.start
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[r.start:r.start+first])
	if n > first {
		copy(dst[first:n], r.buf[:n-first])
	}
	return n
}

// Reset empties the ring without releasing storage.
func (r *Ring[T]) Reset() {
	r.start = 0
	r.size = 0
}
