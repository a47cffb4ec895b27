// Package ui is the text presentation layer over the rules service: the
// quick-add form, the manage listing, and the export view.
package ui

import (
	"errors"
	"fmt"
)

// State is where the popup is in its lifecycle.
//
//	closed <-> open -> managing -> exporting
//
// Only a reload leaves managing or exporting.
type State uint8

const (
	Closed State = iota
	Open
	Managing
	Exporting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Managing:
		return "managing"
	case Exporting:
		return "exporting"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// ErrTransition is returned for a transition the current state does not allow.
var ErrTransition = errors.New("ui: transition not allowed")

type Popup struct {
	state State
}

func NewPopup() *Popup { return &Popup{state: Closed} }

func (p *Popup) State() State { return p.state }

// Toggle opens a closed popup and closes an open one.
func (p *Popup) Toggle() error {
	switch p.state {
	case Closed:
		p.state = Open
	case Open:
		p.state = Closed
	default:
		return fmt.Errorf("%w: toggle while %s", ErrTransition, p.state)
	}
	return nil
}

// Manage switches to the manage listing. Re-rendering while managing, after
// a sort or import, is allowed.
func (p *Popup) Manage() error {
	switch p.state {
	case Open, Managing:
		p.state = Managing
		return nil
	default:
		return fmt.Errorf("%w: manage while %s", ErrTransition, p.state)
	}
}

// Export switches the manage listing to its read-only form.
func (p *Popup) Export() error {
	if p.state != Managing {
		return fmt.Errorf("%w: export while %s", ErrTransition, p.state)
	}
	p.state = Exporting
	return nil
}

// Reload returns to closed from any state.
func (p *Popup) Reload() { p.state = Closed }
