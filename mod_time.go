package brickbreaker

import (
	"time"
)

// Time is the frame clock. Dt is the wall time since the previous tick.
type Time struct {
	Now time.Time
	Dt  time.Duration
}

func NewTime(now time.Time) *Time {
	return &Time{Now: now}
}

func (t *Time) Advance(now time.Time) {
	t.Dt = now.Sub(t.Now)
	t.Now = now
}
