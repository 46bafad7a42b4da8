package usability

import (
	"sync"
)

// VisitCountRecorder counts how many times each view was visited and how
// many times each mark fired.
type VisitCountRecorder struct {
	filter     SignalFilter
	lock       sync.Mutex
	viewNames  []string
	visitCount map[string]uint64
	markCount  map[string]uint64
}

// NewVisitCountRecorder creates a new VisitCountRecorder
func NewVisitCountRecorder(filter SignalFilter) *VisitCountRecorder {
	r := &VisitCountRecorder{
		filter:     filter,
		visitCount: make(map[string]uint64),
		markCount:  make(map[string]uint64),
	}
	return r
}

// ViewNames returns the names of the views seen so far, in first-visit
// order.
func (r *VisitCountRecorder) ViewNames() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.viewNames
}

// VisitCount returns the number of recorded visits to the named view.
func (r *VisitCountRecorder) VisitCount(viewName string) uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.visitCount[viewName]
}

// MarkCount returns the number of recorded marks with a certain What, such
// as "activate" or "deactivate".
func (r *VisitCountRecorder) MarkCount(what string) uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.markCount[what]
}

// StartSpan counts the visit when a view span starts
func (r *VisitCountRecorder) StartSpan(s Signal) {
	if !r.filter(s) {
		return
	}

	if s.Kind != KindView {
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	_, ok := r.visitCount[s.What]
	if !ok {
		r.viewNames = append(r.viewNames, s.What)
	}
	r.visitCount[s.What]++
}

// EndSpan does nothing
func (r *VisitCountRecorder) EndSpan(_ Signal) {
	// Do nothing
}

// Mark counts the mark
func (r *VisitCountRecorder) Mark(s Signal) {
	if !r.filter(s) {
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.markCount[s.What]++
}
