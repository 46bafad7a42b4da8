package usability

// A Recorder consumes the signals emitted by a tracker.
type Recorder interface {
	StartSpan(s Signal)
	EndSpan(s Signal)
	Mark(s Signal)
}
