// Package texture keeps the 3D material's texture in sync with the design
// surface: a debounced scheduler coalesces mutations, and the synchronizer
// bakes the surface to a bitmap and rebinds it, releasing the previous one.
package texture

import (
	"sync"
	"time"
)

// Timer is a single pending scheduled call.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired.
	Stop() bool
}

// Clock creates timers. The production clock wraps time.AfterFunc; tests
// substitute a virtual clock and advance it manually.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (t realTimer) Stop() bool { return t.t.Stop() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// RealClock returns the wall-clock implementation.
func RealClock() Clock { return realClock{} }

// Scheduler is a fire-once cancellable task slot. Scheduling while a task
// is pending cancels the pending one exactly once, so a burst of calls
// results in a single fire after the last delay elapses.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewScheduler creates a scheduler on the given clock. A nil clock uses
// the wall clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{clock: clock}
}

// Schedule arranges for fn to run once after d, replacing any pending
// task. A timer that was cancelled never fires, even if its callback had
// already been dispatched by the clock.
func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending task.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Pending reports whether a task is waiting to fire.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
