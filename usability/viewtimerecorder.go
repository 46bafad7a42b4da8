package usability

import (
	"sync"
)

// ViewTimeRecorder can collect the total time spent in a certain type of
// span. If two spans overlap, this recorder simply adds the two durations
// together.
type ViewTimeRecorder struct {
	timeTeller    TimeTeller
	filter        SignalFilter
	lock          sync.Mutex
	totalTime     TimeInSec
	inflightSpans map[string]Signal
}

// NewViewTimeRecorder creates a new ViewTimeRecorder
func NewViewTimeRecorder(
	timeTeller TimeTeller,
	filter SignalFilter,
) *ViewTimeRecorder {
	r := &ViewTimeRecorder{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightSpans: make(map[string]Signal),
	}
	return r
}

// TotalTime returns the time that has been spent in the matching spans.
func (r *ViewTimeRecorder) TotalTime() TimeInSec {
	r.lock.Lock()
	time := r.totalTime
	r.lock.Unlock()
	return time
}

// StartSpan records the span start time
func (r *ViewTimeRecorder) StartSpan(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()

	if !r.filter(s) {
		return
	}

	r.lock.Lock()
	r.inflightSpans[s.ID] = s
	r.lock.Unlock()
}

// EndSpan records the end of the span
func (r *ViewTimeRecorder) EndSpan(s Signal) {
	s.EndTime = r.timeTeller.CurrentTime()

	r.lock.Lock()
	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		r.lock.Unlock()
		return
	}

	r.totalTime += s.EndTime - originalSpan.StartTime
	delete(r.inflightSpans, s.ID)
	r.lock.Unlock()
}

// Mark does nothing
func (r *ViewTimeRecorder) Mark(_ Signal) {
	// Do nothing
}
