package game

import "time"

// Clock divides frame time into fixed ticks. Several missed ticks during a
// long frame collapse into one; there is no catch-up.
type Clock struct {
	acc time.Duration
}

// Accumulate adds frame time. Negative deltas are ignored.
func (c *Clock) Accumulate(dt time.Duration) {
	if dt > 0 {
		c.acc += dt
	}
}

// ShouldTick reports whether a tick is due and, if so, empties the
// accumulator.
func (c *Clock) ShouldTick(interval time.Duration) bool {
	if c.acc < interval {
		return false
	}
	c.acc = 0
	return true
}

func (c *Clock) Reset() {
	c.acc = 0
}
