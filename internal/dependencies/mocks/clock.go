package mocks

import (
	"sync"
	"time"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Scheduled functions never fire on their own; tests trigger them
// explicitly with FireTimers.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	timers      []*mockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// AfterFunc records a scheduled call without starting a real timer
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{f: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

// FireTimers runs every pending scheduled call and advances the clock
// past the longest delay. Stopped timers are skipped.
func (c *MockClock) FireTimers() {
	c.mu.Lock()
	pending := c.timers
	c.timers = nil
	var longest time.Duration
	for _, t := range pending {
		if t.delay > longest {
			longest = t.delay
		}
	}
	c.CurrentTime = c.CurrentTime.Add(longest)
	c.mu.Unlock()

	for _, t := range pending {
		t.fire()
	}
}

// PendingTimers returns the number of scheduled calls that have not
// fired or been stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type mockTimer struct {
	mu      sync.Mutex
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *mockTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (t *mockTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	f := t.f
	t.mu.Unlock()
	f()
}
