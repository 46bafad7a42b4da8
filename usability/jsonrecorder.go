package usability

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// JSONRecorder can write signals into json format.
type JSONRecorder struct {
	timeTeller    TimeTeller
	w             io.Writer
	lock          sync.Mutex
	firstSignal   bool
	inflightSpans map[string]Signal
}

// StartSpan records the start of a span
func (r *JSONRecorder) StartSpan(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()

	r.lock.Lock()
	r.inflightSpans[s.ID] = s
	r.lock.Unlock()
}

// EndSpan records the time that a span is completed and writes it out.
func (r *JSONRecorder) EndSpan(s Signal) {
	r.lock.Lock()
	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		r.lock.Unlock()
		return
	}
	originalSpan.EndTime = r.timeTeller.CurrentTime()

	delete(r.inflightSpans, s.ID)

	r.write(originalSpan)
	r.lock.Unlock()
}

// Mark writes an instantaneous signal.
func (r *JSONRecorder) Mark(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()
	s.EndTime = s.StartTime

	r.lock.Lock()
	r.write(s)
	r.lock.Unlock()
}

func (r *JSONRecorder) write(s Signal) {
	if r.firstSignal {
		r.firstSignal = false
	} else {
		_, err := r.w.Write([]byte(",\n"))
		if err != nil {
			panic(err)
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	_, err = r.w.Write(b)
	if err != nil {
		panic(err)
	}
}

func (r *JSONRecorder) finish() {
	_, err := r.w.Write([]byte("\n]"))
	if err != nil {
		panic(err)
	}
}

// NewJSONRecorder creates a new JSONRecorder that writes into a uniquely
// named file in the working directory.
func NewJSONRecorder(timeTeller TimeTeller) *JSONRecorder {
	filename := xid.New().String() + ".json"
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Recording signals in %s\n", filename)

	_, err = f.Write([]byte("[\n"))
	if err != nil {
		panic(err)
	}

	r := newJSONRecorderWithWriter(timeTeller, f)

	atexit.Register(r.finish)

	return r
}

func newJSONRecorderWithWriter(
	timeTeller TimeTeller,
	w io.Writer,
) *JSONRecorder {
	return &JSONRecorder{
		timeTeller:    timeTeller,
		w:             w,
		firstSignal:   true,
		inflightSpans: make(map[string]Signal),
	}
}
