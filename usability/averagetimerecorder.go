package usability

import (
	"sync"
)

// AverageTimeRecorder can collect the average duration of a certain type of
// span, such as the average length of a visit to one view.
type AverageTimeRecorder struct {
	timeTeller    TimeTeller
	filter        SignalFilter
	lock          sync.Mutex
	averageTime   TimeInSec
	inflightSpans map[string]Signal
	spanCount     uint64
}

// NewAverageTimeRecorder creates a new AverageTimeRecorder
func NewAverageTimeRecorder(
	timeTeller TimeTeller,
	filter SignalFilter,
) *AverageTimeRecorder {
	r := &AverageTimeRecorder{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightSpans: make(map[string]Signal),
	}
	return r
}

// AverageTime returns the average duration of the completed matching spans.
func (r *AverageTimeRecorder) AverageTime() TimeInSec {
	r.lock.Lock()
	time := r.averageTime
	r.lock.Unlock()
	return time
}

// TotalCount returns the total number of completed matching spans.
func (r *AverageTimeRecorder) TotalCount() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.spanCount
}

// StartSpan records the span start time
func (r *AverageTimeRecorder) StartSpan(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()

	if !r.filter(s) {
		return
	}

	r.lock.Lock()
	r.inflightSpans[s.ID] = s
	r.lock.Unlock()
}

// EndSpan records the end of the span
func (r *AverageTimeRecorder) EndSpan(s Signal) {
	s.EndTime = r.timeTeller.CurrentTime()

	r.lock.Lock()
	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		r.lock.Unlock()
		return
	}

	spanTime := s.EndTime - originalSpan.StartTime
	r.averageTime = TimeInSec(
		(float64(r.averageTime)*float64(r.spanCount) + float64(spanTime)) /
			float64(r.spanCount+1))
	delete(r.inflightSpans, s.ID)
	r.spanCount++
	r.lock.Unlock()
}

// Mark does nothing
func (r *AverageTimeRecorder) Mark(_ Signal) {
	// Do nothing
}
