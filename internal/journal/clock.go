package journal

import (
	"sync"
	"time"
)

// Clock supplies event timestamps. Event ordering never depends on the
// clock - sequence numbers order the log - but timestamps participate in
// event identity, so tests need a deterministic source.
type Clock interface {
	Now() time.Time
}

// WallClock reads the system clock in UTC.
type WallClock struct{}

// Now implements Clock.
func (WallClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock returns timestamps advancing by a fixed step from a fixed
// start. Deterministic event IDs for tests and golden traces.
//
// Thread-safe via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewFixedClock creates a FixedClock starting at start, advancing by step
// on every call to Now.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{at: start, step: step}
}

// Now implements Clock: returns the current instant, then advances.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.at
	c.at = c.at.Add(c.step)
	return now
}
