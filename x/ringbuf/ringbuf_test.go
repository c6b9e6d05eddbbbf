package ringbuf

import "testing"

func drain(r *Ring[int]) []int {
	out := make([]int, r.Len())
	r.CopyTo(out)
	return out
}

func TestLenNeverExceedsCap(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 100; i++ {
		r.Push(i)
		want := i + 1
		if want > 4 {
			want = 4
		}
		if r.Len() != want {
			t.Fatalf("after %d pushes: len=%d want %d", i+1, r.Len(), want)
		}
	}
}

func TestInsertionOrderAcrossWrap(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 11; i++ {
		r.Push(i)
	}
	got := drain(r)
	want := []int{7, 8, 9, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestEvictionIsExactlyOldest(t *testing.T) {
	r := New[int](3)
	for i := 0; i < 3; i++ {
		if _, wasFull := r.Push(i); wasFull {
			t.Fatalf("unexpected eviction at push %d", i)
		}
	}
	secondOldest := r.At(1)

	ev, wasFull := r.Push(99)
	if !wasFull || ev != 0 {
		t.Fatalf("evicted=%v wasFull=%v, want 0 true", ev, wasFull)
	}
	oldest, _ := r.Tail()
	if oldest != secondOldest {
		t.Fatalf("oldest after eviction=%d want %d", oldest, secondOldest)
	}
}

func TestHeadTailAt(t *testing.T) {
	r := New[int](3)
	if _, ok := r.Head(); ok {
		t.Fatal("Head on empty ring")
	}
	if _, ok := r.Tail(); ok {
		t.Fatal("Tail on empty ring")
	}
	r.Push(1)
	r.Push(2)
	r.Push(3)
	r.Push(4)
	if h, _ := r.Head(); h != 4 {
		t.Fatalf("Head=%d want 4", h)
	}
	if tl, _ := r.Tail(); tl != 2 {
		t.Fatalf("Tail=%d want 2", tl)
	}
	if r.At(1) != 3 {
		t.Fatalf("At(1)=%d want 3", r.At(1))
	}
}

func TestCopyToShortDst(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 4; i++ {
		r.Push(i)
	}
	dst := make([]int, 2)
	if n := r.CopyTo(dst); n != 2 {
		t.Fatalf("n=%d want 2", n)
	}
	if dst[0] != 0 || dst[1] != 1 {
		t.Fatalf("dst=%v want oldest-first prefix", dst)
	}
}

func TestReset(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	r.Push(2)
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("len=%d after reset", r.Len())
	}
	r.Push(7)
	if h, _ := r.Head(); h != 7 {
		t.Fatalf("push after reset broken: %d", h)
	}
}
