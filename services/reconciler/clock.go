package reconciler

import "time"

// Clock is the engine's only source of "now". Window comparisons must never
// call time.Now directly so tests can drive boundary crossings.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return systemClock{}
}
