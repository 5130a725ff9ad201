package clock

import "time"

// Clock supplies the timestamps stamped on sessions, players and sets
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC. Sessions round-trip through JSON and
// SQL stores, so timestamps carry no local zone.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
