package monitoring

import (
	"sync"

	"github.com/usablab/usetrack/usability"
)

// RecentSignals is a recorder that keeps the most recent completed signals
// in memory so that the monitor can serve them.
type RecentSignals struct {
	timeTeller usability.TimeTeller

	lock          sync.Mutex
	inflightSpans map[string]usability.Signal
	signals       []usability.Signal
	capacity      int
}

// NewRecentSignals creates a RecentSignals buffer that keeps up to capacity
// signals.
func NewRecentSignals(
	timeTeller usability.TimeTeller,
	capacity int,
) *RecentSignals {
	if capacity <= 0 {
		capacity = 256
	}

	return &RecentSignals{
		timeTeller:    timeTeller,
		inflightSpans: make(map[string]usability.Signal),
		capacity:      capacity,
	}
}

// StartSpan records the start of a span.
func (r *RecentSignals) StartSpan(s usability.Signal) {
	s.StartTime = r.timeTeller.CurrentTime()

	r.lock.Lock()
	r.inflightSpans[s.ID] = s
	r.lock.Unlock()
}

// EndSpan moves a completed span into the buffer.
func (r *RecentSignals) EndSpan(s usability.Signal) {
	r.lock.Lock()
	defer r.lock.Unlock()

	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		return
	}

	originalSpan.EndTime = r.timeTeller.CurrentTime()
	delete(r.inflightSpans, s.ID)

	r.push(originalSpan)
}

// Mark puts an instantaneous signal into the buffer.
func (r *RecentSignals) Mark(s usability.Signal) {
	s.StartTime = r.timeTeller.CurrentTime()
	s.EndTime = s.StartTime

	r.lock.Lock()
	defer r.lock.Unlock()

	r.push(s)
}

func (r *RecentSignals) push(s usability.Signal) {
	r.signals = append(r.signals, s)
	if len(r.signals) > r.capacity {
		r.signals = r.signals[len(r.signals)-r.capacity:]
	}
}

// List returns a copy of the buffered signals, oldest first.
func (r *RecentSignals) List() []usability.Signal {
	r.lock.Lock()
	defer r.lock.Unlock()

	signals := make([]usability.Signal, len(r.signals))
	copy(signals, r.signals)

	return signals
}
