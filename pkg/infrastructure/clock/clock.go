package clock

import "time"

// Clock supplies the run's notion of now
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns the wall clock in UTC
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
