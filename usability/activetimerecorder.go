package usability

import (
	"container/list"
)

type spanStartEnd struct {
	start, end TimeInSec
	completed  bool
}

// ActiveTimeRecorder measures the time during which at least one matching
// span is open. Overlapping spans only count once, so attaching it to
// several trackers with a session filter yields the total time the host
// spent in the foreground.
type ActiveTimeRecorder struct {
	timeTeller    TimeTeller
	filter        SignalFilter
	inflightSpans map[string]*list.Element
	spanTimes     *list.List
	activeTime    TimeInSec
}

// NewActiveTimeRecorder creates a new ActiveTimeRecorder
func NewActiveTimeRecorder(
	timeTeller TimeTeller,
	filter SignalFilter,
) *ActiveTimeRecorder {
	r := &ActiveTimeRecorder{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightSpans: make(map[string]*list.Element),
		spanTimes:     list.New(),
	}

	r.spanTimes.Init()

	return r
}

// ActiveTime returns the collapsed time covered by the matching spans.
func (r *ActiveTimeRecorder) ActiveTime() TimeInSec {
	return r.activeTime
}

// TerminateAllSpans will mark all the open spans as completed.
func (r *ActiveTimeRecorder) TerminateAllSpans(now TimeInSec) {
	for e := r.spanTimes.Front(); e != nil; e = e.Next() {
		span := e.Value.(*spanStartEnd)
		if !span.completed {
			span.completed = true
			span.end = now
		}
	}

	r.collapse(now)
}

// StartSpan records the span start time
func (r *ActiveTimeRecorder) StartSpan(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()

	if r.filter != nil && !r.filter(s) {
		return
	}

	spanTime := &spanStartEnd{start: s.StartTime}

	elem := r.spanTimes.PushBack(spanTime)
	r.inflightSpans[s.ID] = elem
}

// EndSpan records the end of the span
func (r *ActiveTimeRecorder) EndSpan(s Signal) {
	s.EndTime = r.timeTeller.CurrentTime()

	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		return
	}

	time := originalSpan.Value.(*spanStartEnd)
	time.end = s.EndTime
	time.completed = true
	delete(r.inflightSpans, s.ID)

	r.collapse(s.EndTime)
}

// Mark does nothing
func (r *ActiveTimeRecorder) Mark(_ Signal) {
	// Do nothing
}

func (r *ActiveTimeRecorder) collapse(now TimeInSec) {
	time, found := r.startTimeOfFirstIncompleteSpan()
	if found && time < now {
		return
	}

	finishedSpans := make([]*spanStartEnd, 0)

	var next *list.Element
	for e := r.spanTimes.Front(); e != nil; e = next {
		next = e.Next()

		span := e.Value.(*spanStartEnd)
		if !span.completed {
			break
		}

		if span.end <= now {
			finishedSpans = append(finishedSpans, span)
			r.spanTimes.Remove(e)
		}
	}

	r.activeTime += r.collapsedSpanTime(finishedSpans)
}

func (r *ActiveTimeRecorder) startTimeOfFirstIncompleteSpan() (
	TimeInSec, bool,
) {
	for e := r.spanTimes.Front(); e != nil; e = e.Next() {
		span := e.Value.(*spanStartEnd)
		if !span.completed {
			return span.start, true
		}
	}

	return 0, false
}

func (r *ActiveTimeRecorder) collapsedSpanTime(
	spans []*spanStartEnd,
) TimeInSec {
	activeTime := TimeInSec(0.0)
	coveredMask := make(map[int]bool)

	for i, s1 := range spans {
		if _, covered := coveredMask[i]; covered {
			continue
		}

		coveredMask[i] = true

		extTime := spanStartEnd{
			start: s1.start,
			end:   s1.end,
		}

		for j, s2 := range spans {
			if _, covered := coveredMask[j]; covered {
				continue
			}

			if r.spanTimeOverlap(s1, s2) {
				coveredMask[j] = true
				r.extendSpanTime(&extTime, s2)
			}
		}

		activeTime += extTime.end - extTime.start
	}

	return activeTime
}

func (r *ActiveTimeRecorder) extendSpanTime(
	base *spanStartEnd,
	s2 *spanStartEnd,
) {
	if s2.start < base.start {
		base.start = s2.start
	}

	if s2.end > base.end {
		base.end = s2.end
	}
}

func (r *ActiveTimeRecorder) spanTimeOverlap(s1, s2 *spanStartEnd) bool {
	if s1.start <= s2.start && s1.end >= s2.start {
		return true
	}

	if s1.start <= s2.end && s1.end >= s2.end {
		return true
	}

	if s1.start >= s2.start && s1.end <= s2.end {
		return true
	}

	return false
}
