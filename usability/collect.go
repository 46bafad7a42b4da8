package usability

import (
	"fmt"
	"reflect"

	"github.com/usablab/usetrack/hooking"
)

// CollectSignals lets the recorder collect the signals emitted by a domain.
func CollectSignals(domain NamedHookable, recorder Recorder) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*signalHook)
		if ok && hook.r == recorder {
			panic(fmt.Sprintf(
				"domain %s already has recorder %s",
				domain.Name(), reflect.TypeOf(recorder)))
		}
	}

	h := signalHook{r: recorder}
	domain.AcceptHook(&h)
}

// A signalHook is a hook that forwards signals to a recorder.
type signalHook struct {
	r Recorder
}

// Func calls the recorder interfaces when the hook is triggered
func (h *signalHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case HookPosSpanStart:
		h.r.StartSpan(ctx.Item.(Signal))
	case HookPosSpanEnd:
		h.r.EndSpan(ctx.Item.(Signal))
	case HookPosMark:
		h.r.Mark(ctx.Item.(Signal))
	}
}
