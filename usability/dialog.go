package usability

import (
	"fmt"
	"sync"
)

// DialogChoiceDecline is the button index that declines tracking.
const DialogChoiceDecline = 0

// DialogDelegate receives the callback when a confirmation dialog is
// dismissed by the user. A Tracker is a DialogDelegate.
type DialogDelegate interface {
	DialogDismissed(choiceIndex int)
}

// A Dialog models the receiving side of the platform's alert facility. The
// host environment renders it; this type only defines the button set and the
// delegate contract. The dialog holds a non-owning reference to its delegate
// while visible and releases it on dismissal.
type Dialog struct {
	Title   string
	Buttons []string

	mu       sync.Mutex
	delegate DialogDelegate
}

// NewDialog creates a dialog with a title and at least one button.
func NewDialog(title string, buttons ...string) *Dialog {
	if len(buttons) == 0 {
		panic("dialog must have at least one button")
	}

	return &Dialog{
		Title:   title,
		Buttons: buttons,
	}
}

// Show makes the dialog visible and registers the delegate to call back on
// dismissal. Showing an already-visible dialog panics.
func (d *Dialog) Show(delegate DialogDelegate) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.delegate != nil {
		panic("dialog is already visible")
	}

	if delegate == nil {
		panic("dialog delegate must not be nil")
	}

	d.delegate = delegate
}

// Visible reports whether the dialog is waiting for a choice.
func (d *Dialog) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.delegate != nil
}

// Dismiss reports the user's chosen button index to the delegate and
// releases the delegate reference.
func (d *Dialog) Dismiss(choiceIndex int) {
	d.mu.Lock()

	if d.delegate == nil {
		d.mu.Unlock()
		panic("dialog is not visible")
	}

	if choiceIndex < 0 || choiceIndex >= len(d.Buttons) {
		d.mu.Unlock()
		panic(fmt.Sprintf("choice index %d out of range", choiceIndex))
	}

	delegate := d.delegate
	d.delegate = nil
	d.mu.Unlock()

	delegate.DialogDismissed(choiceIndex)
}
