package core

import "time"

// Scheduler accumulates elapsed time and releases a burst of simulation steps
// once the configured delay has passed. It owns no simulation state; callers
// feed it time and run the returned number of steps themselves.
type Scheduler struct {
	delay       time.Duration
	iterations  int
	accumulator time.Duration
	last        time.Time
}

// NewScheduler constructs a Scheduler releasing iterations steps every delay.
func NewScheduler(delay time.Duration, iterations int) *Scheduler {
	s := &Scheduler{}
	s.SetDelay(delay)
	s.SetIterations(iterations)
	return s
}

// SetDelay changes the time that must accumulate before the next burst.
// Negative values are treated as zero.
func (s *Scheduler) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	s.delay = delay
}

// SetIterations changes the number of steps released per burst.
func (s *Scheduler) SetIterations(n int) {
	if n <= 0 {
		n = 1
	}
	s.iterations = n
}

// Delay reports the configured delay.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Iterations reports the number of steps released per burst.
func (s *Scheduler) Iterations() int { return s.iterations }

// Advance adds elapsed to the accumulator and reports how many steps should
// run now. The accumulator is cleared whenever a burst is released.
func (s *Scheduler) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		s.accumulator += elapsed
	}
	if s.accumulator > s.delay {
		s.accumulator = 0
		return s.iterations
	}
	return 0
}

// Due measures the wall-clock time since the previous call and advances the
// scheduler by it.
func (s *Scheduler) Due() int {
	now := time.Now()
	if s.last.IsZero() {
		s.last = now
	}
	delta := now.Sub(s.last)
	s.last = now
	return s.Advance(delta)
}

// Run advances the scheduler by elapsed and invokes step for every released
// iteration, stopping at the first error.
func (s *Scheduler) Run(elapsed time.Duration, step func() error) error {
	n := s.Advance(elapsed)
	for i := 0; i < n; i++ {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
