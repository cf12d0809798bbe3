package core

import (
	"errors"
	"testing"
	"time"
)

func TestSchedulerReleasesBurstAfterDelay(t *testing.T) {
	s := NewScheduler(100*time.Millisecond, 3)

	if got := s.Advance(60 * time.Millisecond); got != 0 {
		t.Fatalf("expected no steps before delay, got %d", got)
	}
	if got := s.Advance(40 * time.Millisecond); got != 0 {
		t.Fatalf("expected delay to be exclusive, got %d", got)
	}
	if got := s.Advance(time.Millisecond); got != 3 {
		t.Fatalf("expected burst of 3 once delay exceeded, got %d", got)
	}
	if got := s.Advance(50 * time.Millisecond); got != 0 {
		t.Fatalf("expected accumulator to reset after burst, got %d", got)
	}
}

func TestSchedulerZeroDelayStepsEveryAdvance(t *testing.T) {
	s := NewScheduler(0, 1)
	if got := s.Advance(time.Nanosecond); got != 1 {
		t.Fatalf("expected one step, got %d", got)
	}
	if got := s.Advance(0); got != 0 {
		t.Fatalf("expected no step without elapsed time, got %d", got)
	}
}

func TestSchedulerClampsInvalidSettings(t *testing.T) {
	s := NewScheduler(-time.Second, 0)
	if s.Delay() != 0 {
		t.Fatalf("expected negative delay to clamp to zero, got %s", s.Delay())
	}
	if s.Iterations() != 1 {
		t.Fatalf("expected iterations to clamp to one, got %d", s.Iterations())
	}
}

func TestSchedulerRunStopsAtFirstError(t *testing.T) {
	s := NewScheduler(0, 5)
	boom := errors.New("boom")
	calls := 0
	err := s.Run(time.Millisecond, func() error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected step error to propagate, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected run to stop after failing step, got %d calls", calls)
	}
}
