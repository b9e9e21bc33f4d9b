// Package loginform drives the combined login and registration form.
package loginform

import (
	"sync"
)

// Mode selects which provider call a submission makes.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// ParseMode maps a form value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLogin, ModeRegister:
		return Mode(s), true
	default:
		return "", false
	}
}

// Other returns the mode a toggle switches to.
func (m Mode) Other() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

// State is the transient form state. It is never persisted.
type State struct {
	Mode       Mode
	FullName   string
	Email      string
	Password   string
	Error      string
	Submitting bool
}

// Form is one instance of the form on screen. It outlives the requests that
// act on it and guards against overlapping submissions.
type Form struct {
	mu    sync.Mutex
	state State
	// toggles counts mode switches so a submission can tell whether the
	// form it started on is still the one on screen.
	toggles uint64
}

// NewForm returns an empty form in mode.
func NewForm(mode Mode) *Form {
	return &Form{state: State{Mode: mode}}
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetFields records user input. The mode, error and submitting flag are
// left untouched.
func (f *Form) SetFields(fullName, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.FullName = fullName
	f.state.Email = email
	f.state.Password = password
}

// Toggle switches mode and clears every field and the error message.
func (f *Form) Toggle() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = State{Mode: f.state.Mode.Other(), Submitting: f.state.Submitting}
	f.toggles++
	return f.state
}
