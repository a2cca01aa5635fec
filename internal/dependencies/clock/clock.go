// Package clock abstracts the wall clock so grace-period and expiry
// decisions can be driven by a controlled time source in tests.
package clock

import "time"

// Clock is the time source for disconnect timestamps and room bookkeeping
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
