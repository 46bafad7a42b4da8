package usability

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVSignalWriter is a recorder that can store the signals into a CSV file.
type CSVSignalWriter struct {
	timeTeller TimeTeller
	path       string
	file       *os.File

	lock          sync.Mutex
	inflightSpans map[string]Signal
	completed     []Signal
	bufferSize    int
}

// NewCSVSignalWriter creates a new CSVSignalWriter.
func NewCSVSignalWriter(timeTeller TimeTeller, path string) *CSVSignalWriter {
	return &CSVSignalWriter{
		timeTeller:    timeTeller,
		path:          path,
		inflightSpans: make(map[string]Signal),
		bufferSize:    1000,
	}
}

// Init creates the csv file. If the path is empty, a unique name is picked.
func (w *CSVSignalWriter) Init() {
	if w.path == "" {
		w.path = "usetrack_" + xid.New().String()
	}

	filename := w.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	w.file = file

	fmt.Fprintf(file, "ID, ParentID, Kind, What, Where, Start, End\n")

	atexit.Register(func() {
		w.Flush()
		err := w.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// StartSpan records the start of a span.
func (w *CSVSignalWriter) StartSpan(s Signal) {
	s.StartTime = w.timeTeller.CurrentTime()

	w.lock.Lock()
	w.inflightSpans[s.ID] = s
	w.lock.Unlock()
}

// EndSpan completes a span and buffers it for writing.
func (w *CSVSignalWriter) EndSpan(s Signal) {
	w.lock.Lock()
	defer w.lock.Unlock()

	originalSpan, ok := w.inflightSpans[s.ID]
	if !ok {
		return
	}

	originalSpan.EndTime = w.timeTeller.CurrentTime()
	delete(w.inflightSpans, s.ID)

	w.buffer(originalSpan)
}

// Mark buffers an instantaneous signal. Start and end carry the same time.
func (w *CSVSignalWriter) Mark(s Signal) {
	s.StartTime = w.timeTeller.CurrentTime()
	s.EndTime = s.StartTime

	w.lock.Lock()
	defer w.lock.Unlock()

	w.buffer(s)
}

func (w *CSVSignalWriter) buffer(s Signal) {
	w.completed = append(w.completed, s)
	if len(w.completed) >= w.bufferSize {
		w.flush()
	}
}

// Flush writes the buffered signals to the CSV file.
func (w *CSVSignalWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.flush()
}

func (w *CSVSignalWriter) flush() {
	for _, s := range w.completed {
		fmt.Fprintf(w.file, "%s, %s, %s, %s, %s, %.10f, %.10f\n",
			s.ID,
			s.ParentID,
			s.Kind,
			s.What,
			s.Where,
			s.StartTime,
			s.EndTime,
		)
	}

	w.completed = nil
}
