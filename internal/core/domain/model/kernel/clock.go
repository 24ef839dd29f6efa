package kernel

import "time"

// Clock is the time source for dwell, scheduling and cancellation rules.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant. Tests advance it with Advance.
type FixedClock struct {
	At time.Time
}

func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{At: at}
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
