// Package modal models the delete-confirmation overlay as an explicit
// state machine instead of coupling dismissal to navigation history.
//
// States: closed -> open -> confirming -> dismissing -> closed, with a
// cancel shortcut from open straight to dismissing. Leaving the
// dismissing state fires a caller-supplied callback (for the web layer,
// a redirect back to the referring view).
package modal

import (
	"errors"
	"fmt"
)

type State int

const (
	Closed State = iota
	Open
	Confirming
	Dismissing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Confirming:
		return "confirming"
	case Dismissing:
		return "dismissing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid modal transition")

// Machine is a single overlay's lifecycle. It is not safe for
// concurrent use; each request drives its own machine.
type Machine struct {
	state     State
	onDismiss func()
}

// New returns a machine in the closed state. onDismiss runs when the
// overlay finishes dismissing; nil is allowed.
func New(onDismiss func()) *Machine {
	return &Machine{state: Closed, onDismiss: onDismiss}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) transition(from, to State) error {
	if m.state != from {
		return fmt.Errorf("%w: %s -> %s (machine is %s)", ErrInvalidTransition, from, to, m.state)
	}
	m.state = to
	return nil
}

// Show opens the overlay.
func (m *Machine) Show() error {
	return m.transition(Closed, Open)
}

// Confirm marks the destructive action as accepted; the mutation runs
// while the machine sits in the confirming state.
func (m *Machine) Confirm() error {
	return m.transition(Open, Confirming)
}

// Complete records that the mutation finished and begins dismissal.
func (m *Machine) Complete() error {
	return m.transition(Confirming, Dismissing)
}

// Cancel dismisses the overlay without running the mutation. Both the
// explicit cancel button and clicking outside the overlay land here.
func (m *Machine) Cancel() error {
	return m.transition(Open, Dismissing)
}

// Dismiss closes the overlay and fires the dismissal callback, i.e.
// "return to the previous view" regardless of whether a mutation ran.
func (m *Machine) Dismiss() error {
	if err := m.transition(Dismissing, Closed); err != nil {
		return err
	}
	if m.onDismiss != nil {
		m.onDismiss()
	}
	return nil
}
