package usability

// Signal kinds emitted by trackers.
const (
	// KindView marks a span that covers one visit to a named view.
	KindView = "view"

	// KindSession marks a span that covers one foreground session.
	KindSession = "session"

	// KindLifecycle marks an instantaneous activate/deactivate transition.
	KindLifecycle = "lifecycle"

	// KindDialog marks the dismissal of a consent dialog.
	KindDialog = "dialog"
)

// A Signal is one usability observation. View visits and foreground sessions
// are spans with a start and an end time. Lifecycle transitions and dialog
// choices are marks, where only StartTime is meaningful.
type Signal struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Kind      string    `json:"kind"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	StartTime TimeInSec `json:"start_time"`
	EndTime   TimeInSec `json:"end_time"`
	Detail    any       `json:"-"`
}

// SignalFilter is a function that can filter interesting signals. If this
// function returns true, the signal is considered useful.
type SignalFilter func(s Signal) bool

// AllSignals is a filter that keeps every signal.
func AllSignals(_ Signal) bool {
	return true
}

// KindFilter returns a filter that keeps the signals of one kind.
func KindFilter(kind string) SignalFilter {
	return func(s Signal) bool {
		return s.Kind == kind
	}
}

// ViewFilter returns a filter that keeps the visits to one named view.
func ViewFilter(name string) SignalFilter {
	return func(s Signal) bool {
		return s.Kind == KindView && s.What == name
	}
}
