package core

import (
	"sync/atomic"
	"testing"
)

func TestDispatchVisitsEveryCellOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3} {
		size := Size{W: 16, H: 24}
		visits := make([]int32, size.Cells())
		err := Dispatch(size, workers, func(x, y int) {
			atomic.AddInt32(&visits[size.Index(x, y)], 1)
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error %v", workers, err)
		}
		for i, v := range visits {
			if v != 1 {
				t.Fatalf("workers=%d: cell %d visited %d times", workers, i, v)
			}
		}
	}
}

func TestDispatchReportsPanics(t *testing.T) {
	size := Size{W: 8, H: 16}
	err := Dispatch(size, 2, func(x, y int) {
		if x == 3 && y == 12 {
			panic("bad cell")
		}
	})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}

func TestSizeContains(t *testing.T) {
	s := Size{W: 8, H: 8}
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{7, 7, true},
		{-1, 0, false},
		{0, 8, false},
		{8, 3, false},
	}
	for _, c := range cases {
		if got := s.Contains(c.x, c.y); got != c.want {
			t.Fatalf("Contains(%d,%d)=%v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestHashDeterministicAndTickSensitive(t *testing.T) {
	a := Hash(3, 5, 10, 42)
	if b := Hash(3, 5, 10, 42); a != b {
		t.Fatalf("hash not deterministic: %d != %d", a, b)
	}
	differs := 0
	for tick := uint64(0); tick < 64; tick++ {
		if Hash(3, 5, tick, 42)&1 != Hash(3, 5, tick+1, 42)&1 {
			differs++
		}
	}
	if differs == 0 {
		t.Fatal("expected low bit to alternate across ticks")
	}
}
