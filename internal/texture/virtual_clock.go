package texture

import (
	"sort"
	"sync"
	"time"
)

// VirtualClock is a manually advanced Clock for tests: timers fire from
// Advance instead of wall time, so debounce behavior is deterministic.
type VirtualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*virtualTimer
}

type virtualTimer struct {
	clock   *VirtualClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

// NewVirtualClock creates a virtual clock starting at an arbitrary epoch.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{now: time.Unix(0, 0)}
}

// AfterFunc implements Clock.
func (c *VirtualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &virtualTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward, firing due timers in order on the
// calling goroutine.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	deadline := c.now

	var due []*virtualTimer
	var rest []*virtualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.when.After(deadline) {
			due = append(due, t)
		} else if !t.stopped {
			rest = append(rest, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].when.Before(due[j].when) })
	for _, t := range due {
		t.fired = true
	}
	c.timers = rest
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}
