// Package clock provides time utilities for the application
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/gamelearn/escape-api/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed is a Clock that returns a settable time, for tests that need
// deterministic start/end timestamps.
type Fixed struct {
	current time.Time
}

// NewFixed returns a clock pinned to t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

// Now returns the pinned time
func (c *Fixed) Now() time.Time {
	return c.current
}

// Advance moves the pinned time forward by d
func (c *Fixed) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
