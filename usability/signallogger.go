package usability

import (
	"log"

	"github.com/usablab/usetrack/hooking"
)

// SignalLogger is a hook that prints every signal it sees.
type SignalLogger struct {
	*log.Logger
}

// NewSignalLogger returns a hook that writes signals into the logger.
func NewSignalLogger(logger *log.Logger) *SignalLogger {
	h := new(SignalLogger)
	h.Logger = logger
	return h
}

// Func writes the signal information into the logger
func (h *SignalLogger) Func(ctx hooking.HookCtx) {
	signal, ok := ctx.Item.(Signal)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosSpanStart:
		h.Logger.Printf("start, %s, %s, %s, %s",
			signal.ID, signal.Kind, signal.What, signal.Where)
	case HookPosSpanEnd:
		h.Logger.Printf("end, %s", signal.ID)
	case HookPosMark:
		h.Logger.Printf("mark, %s, %s, %s, %s",
			signal.ID, signal.Kind, signal.What, signal.Where)
	}
}
