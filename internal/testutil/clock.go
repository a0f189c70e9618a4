// Package testutil holds helpers shared by carlog's tests.
package testutil

import (
	"sync"
	"time"
)

// Clock is a deterministic wall clock. Each call to Now returns the
// previous value advanced by a fixed step, starting at the given time.
//
// Thread-safety: Now is safe for concurrent use.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewClock creates a clock whose first reading is start.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start, step: step}
}

// Now returns the current reading and advances the clock by one step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}
