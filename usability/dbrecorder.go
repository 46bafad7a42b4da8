package usability

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/usablab/usetrack/recording"
)

const signalTableName = "signals"

// DBRecorder is a recorder that can store signals into a database.
// DBRecorders can connect with different backends so that the signals can be
// stored in different types of databases (e.g., SQLite, ClickHouse).
type DBRecorder struct {
	mu         sync.Mutex
	timeTeller TimeTeller
	backend    recording.DataRecorder

	inflightSpans map[string]Signal
}

// NewDBRecorder creates a DBRecorder that writes through the given backend.
func NewDBRecorder(
	timeTeller TimeTeller,
	backend recording.DataRecorder,
) *DBRecorder {
	r := &DBRecorder{
		timeTeller:    timeTeller,
		backend:       backend,
		inflightSpans: make(map[string]Signal),
	}

	backend.CreateTable(signalTableName, recording.SignalEntry{})

	atexit.Register(func() {
		r.Terminate()
	})

	return r
}

// StartSpan marks the start of a span.
func (r *DBRecorder) StartSpan(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.startingSpanMustBeValid(s)

	s.StartTime = r.timeTeller.CurrentTime()
	r.inflightSpans[s.ID] = s
}

func (r *DBRecorder) startingSpanMustBeValid(s Signal) {
	if s.ID == "" {
		panic("signal ID must be set")
	}

	if s.Kind == "" {
		panic("signal kind must be set")
	}

	if s.What == "" {
		panic("signal what must be set")
	}

	if s.Where == "" {
		panic("signal location must be set")
	}
}

// EndSpan marks the end of a span and writes the completed row.
func (r *DBRecorder) EndSpan(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		return
	}

	originalSpan.EndTime = r.timeTeller.CurrentTime()
	delete(r.inflightSpans, s.ID)

	r.backend.InsertData(signalTableName, toSignalEntry(originalSpan))
}

// Mark writes an instantaneous signal row.
func (r *DBRecorder) Mark(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.StartTime = r.timeTeller.CurrentTime()
	s.EndTime = s.StartTime

	r.backend.InsertData(signalTableName, toSignalEntry(s))
}

// Terminate writes the spans that are still open, ending them at the current
// time, and flushes the backend.
func (r *DBRecorder) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeTeller.CurrentTime()
	for id, s := range r.inflightSpans {
		s.EndTime = now
		r.backend.InsertData(signalTableName, toSignalEntry(s))
		delete(r.inflightSpans, id)
	}

	r.backend.Flush()
}

func toSignalEntry(s Signal) recording.SignalEntry {
	return recording.SignalEntry{
		ID:        s.ID,
		ParentID:  s.ParentID,
		Kind:      s.Kind,
		What:      s.What,
		Location:  s.Where,
		StartTime: float64(s.StartTime),
		EndTime:   float64(s.EndTime),
	}
}
