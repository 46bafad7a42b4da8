package usability

import (
	"strconv"
	"sync"

	"github.com/usablab/usetrack/hooking"
)

// A Tracker records usability signals for one host application. It is
// hookable; recorders attach through CollectSignals.
//
// EnterView, AppActivate, AppDeactivate, and DialogDismissed may be called
// from any goroutine. Hooks run under the tracker lock, so signals reach the
// recorders in call order.
type Tracker struct {
	hooking.HookableBase

	name       string
	timeTeller TimeTeller

	mu          sync.Mutex
	enabled     bool
	sessionID   string
	currentView string
	viewSpanID  string
}

// NewTracker creates a tracker with the given name. The name identifies the
// tracker in the Where field of every signal it emits.
func NewTracker(name string) *Tracker {
	if name == "" {
		panic("tracker must have a name")
	}

	return &Tracker{
		name:       name,
		timeTeller: NewWallClock(),
		enabled:    true,
	}
}

// WithTimeTeller substitutes the clock that timestamps signals.
func (t *Tracker) WithTimeTeller(tt TimeTeller) *Tracker {
	t.timeTeller = tt
	return t
}

// Name returns the name of the tracker.
func (t *Tracker) Name() string {
	return t.name
}

// TimeTeller returns the clock the tracker stamps signals with.
func (t *Tracker) TimeTeller() TimeTeller {
	return t.timeTeller
}

// CurrentView returns the name of the view whose visit span is open, or an
// empty string when no view is being visited.
func (t *Tracker) CurrentView() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.currentView
}

// InSession reports whether a foreground session span is open.
func (t *Tracker) InSession() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sessionID != ""
}

// Enabled reports whether the tracker is emitting signals.
func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.enabled
}

// SetEnabled turns signal emission on or off. Disabling does not close open
// spans; recorders see them end at the next emitted transition.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
}

// EnterView records that the view identified by name was entered. The open
// visit span, if any, ends and a new one starts. An empty name is a no-op.
func (t *Tracker) EnterView(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" || !t.enabled {
		return
	}

	t.endViewSpan()

	t.viewSpanID = GetIDGenerator().Generate()
	t.currentView = name
	StartSpan(t.viewSpanID, t.sessionID, t, KindView, name, nil)
}

// AppActivate records that the application transitioned to the foreground.
// A foreground session span opens if none is open yet.
func (t *Tracker) AppActivate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	Mark(GetIDGenerator().Generate(), t.sessionID, t,
		KindLifecycle, "activate", nil)

	if t.sessionID == "" {
		t.sessionID = GetIDGenerator().Generate()
		StartSpan(t.sessionID, "", t, KindSession, "foreground", nil)
	}
}

// AppDeactivate records that the application transitioned to the background.
// The open visit span and the foreground session span both end; time spent
// in the background accrues to neither.
func (t *Tracker) AppDeactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	Mark(GetIDGenerator().Generate(), t.sessionID, t,
		KindLifecycle, "deactivate", nil)

	t.endViewSpan()

	if t.sessionID != "" {
		EndSpan(t.sessionID, t)
		t.sessionID = ""
	}
}

// DialogDismissed implements DialogDelegate. Choice index
// DialogChoiceDecline disables further signal emission; any other choice
// enables it. The dialog mark itself is always emitted so that the consent
// decision is observable.
func (t *Tracker) DialogDismissed(choiceIndex int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = choiceIndex != DialogChoiceDecline

	Mark(GetIDGenerator().Generate(), t.sessionID, t,
		KindDialog, strconv.Itoa(choiceIndex), nil)
}

func (t *Tracker) endViewSpan() {
	if t.viewSpanID == "" {
		return
	}

	EndSpan(t.viewSpanID, t)
	t.viewSpanID = ""
	t.currentView = ""
}

var sharedTrackerMutex sync.Mutex
var sharedTrackerOnce sync.Once
var sharedTrackerInstantiated bool
var sharedTracker *Tracker
var sharedTrackerName = "UsabilityTracker"

// UseSharedTrackerName sets the name of the process-wide tracker. It must be
// called before the first SharedTracker call.
func UseSharedTrackerName(name string) {
	sharedTrackerMutex.Lock()
	defer sharedTrackerMutex.Unlock()

	if sharedTrackerInstantiated {
		panic("cannot rename the shared tracker after using it")
	}

	sharedTrackerName = name
}

// SharedTracker returns the one process-wide tracker, constructing it on the
// first call. Concurrent first-time callers all observe the same instance.
func SharedTracker() *Tracker {
	sharedTrackerOnce.Do(func() {
		sharedTrackerMutex.Lock()
		defer sharedTrackerMutex.Unlock()

		sharedTracker = NewTracker(sharedTrackerName)
		sharedTrackerInstantiated = true
	})

	return sharedTracker
}
