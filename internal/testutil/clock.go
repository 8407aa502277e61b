// Package testutil provides deterministic time sources for tests.
package testutil

import (
	"sync"
	"time"
)

// SteppingClock hands out strictly increasing timestamps from a fixed
// origin. Each call to Now advances by a fixed step, so records written
// in sequence get distinct, reproducible creation times.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type SteppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewSteppingClock creates a clock whose first Now call returns start.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{next: start, step: step}
}

// Now returns the next timestamp and advances the clock by one step.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Reset rewinds the clock to start again from the given origin.
func (c *SteppingClock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = start
}
