package providers

import "time"

// Clock is the injectable wall-clock source. Phase derivation is a pure
// function of persisted state and Now(), so tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewClockProvider() Clock {
	return systemClock{}
}
