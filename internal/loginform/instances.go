package loginform

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidFormID is returned by Adopt for an id Open could not have issued.
var ErrInvalidFormID = errors.New("invalid form id")

type instance struct {
	form    *Form
	touched time.Time
}

// Instances tracks the forms currently on screen, keyed by the form_id the
// page carries. Forms untouched for longer than ttl are dropped.
type Instances struct {
	mu    sync.Mutex
	forms map[string]*instance
	ttl   time.Duration
	now   func() time.Time
}

// NewInstances creates an empty registry.
func NewInstances(ttl time.Duration) *Instances {
	return &Instances{forms: make(map[string]*instance), ttl: ttl, now: time.Now}
}

// Open registers a fresh form in mode and returns its id.
func (i *Instances) Open(mode Mode) (string, *Form) {
	id := uuid.NewString()
	form := NewForm(mode)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.sweepLocked()
	i.forms[id] = &instance{form: form, touched: i.now()}
	return id, form
}

// Lookup returns the form registered under id.
func (i *Instances) Lookup(id string) (*Form, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	inst, ok := i.forms[id]
	if !ok {
		return nil, false
	}
	inst.touched = i.now()
	return inst.form, true
}

// Adopt registers form under id, replacing any form already there. It lets a
// page whose form expired carry on under its old id. Only ids in the form
// Open issues are accepted.
func (i *Instances) Adopt(id string, form *Form) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidFormID
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.forms[id] = &instance{form: form, touched: i.now()}
	return nil
}

// Remove drops the form registered under id.
func (i *Instances) Remove(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.forms, id)
}

// Len returns the number of registered forms.
func (i *Instances) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.forms)
}

// Sweep drops stale forms and returns how many were removed.
func (i *Instances) Sweep() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sweepLocked()
}

func (i *Instances) sweepLocked() int {
	cutoff := i.now().Add(-i.ttl)
	removed := 0
	for id, inst := range i.forms {
		if inst.touched.Before(cutoff) && !inst.form.State().Submitting {
			delete(i.forms, id)
			removed++
		}
	}
	return removed
}
