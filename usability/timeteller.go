package usability

import "time"

// TimeInSec is a wall-clock time expressed in seconds since the Unix epoch.
type TimeInSec float64

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() TimeInSec
}

// NewWallClock returns a TimeTeller backed by the system clock.
func NewWallClock() TimeTeller {
	return wallClock{}
}

type wallClock struct{}

func (wallClock) CurrentTime() TimeInSec {
	return TimeInSec(float64(time.Now().UnixNano()) / float64(time.Second))
}
