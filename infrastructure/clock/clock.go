// Package clock provides the system implementation of the Clock port.
package clock

import "time"

// SystemClock reads the wall clock.
type SystemClock struct{}

// NewSystemClock creates a SystemClock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current instant in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
