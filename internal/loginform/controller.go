package loginform

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

// MsgRequiredFields is shown when a submission is missing required input.
const MsgRequiredFields = "Please fill in all required fields."

var (
	// ErrMissingFields is returned by Submit when required input is empty.
	ErrMissingFields = errors.New("required fields missing")

	// ErrSubmissionInFlight is returned by Submit while an earlier
	// submission of the same form has not finished.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// submission is the validated shape of a form post. FullName is only
// required when registering.
type submission struct {
	Mode     Mode
	FullName string `validate:"required_if=Mode register"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var validate = validator.New()

// Deps are the collaborators a controller acts through.
type Deps struct {
	Provider  domain.IdentityProvider
	Store     domain.ProfileStore
	Navigator domain.Navigator
	Logger    *slog.Logger
	Now       func() time.Time
}

// Controller applies user actions to a Form.
type Controller struct {
	form *Form
	deps Deps
}

// New binds form to deps.
func New(form *Form, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{form: form, deps: deps}
}

// State returns a snapshot of the form.
func (c *Controller) State() State { return c.form.State() }

// Toggle switches between login and register, clearing the form.
func (c *Controller) Toggle() State { return c.form.Toggle() }

// Submit validates the form and makes exactly one provider call for it. On
// success the user is sent to the home screen; on failure the form carries
// the message to show and the error is returned. The password is dropped
// from the form once the submission finishes, whatever the outcome. A
// failure that lands after the user toggled modes leaves the new mode's
// form clean.
func (c *Controller) Submit(ctx context.Context) error {
	f := c.form

	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	in := submission{
		Mode:     f.state.Mode,
		FullName: f.state.FullName,
		Email:    f.state.Email,
		Password: f.state.Password,
	}
	if err := validate.Struct(in); err != nil {
		f.state.Error = MsgRequiredFields
		f.state.Password = ""
		f.mu.Unlock()
		return ErrMissingFields
	}
	f.state.Error = ""
	f.state.Submitting = true
	toggles := f.toggles
	f.mu.Unlock()

	err := c.dispatch(ctx, in)

	f.mu.Lock()
	f.state.Submitting = false
	f.state.Password = ""
	if err != nil && f.toggles == toggles {
		f.state.Error = auth_errors.Message(err)
	}
	f.mu.Unlock()

	if err != nil {
		return err
	}
	c.deps.Navigator.Navigate(domain.RouteHome)
	return nil
}

func (c *Controller) dispatch(ctx context.Context, in submission) error {
	if in.Mode != ModeRegister {
		_, err := c.deps.Provider.SignIn(ctx, in.Email, in.Password)
		return err
	}

	session, err := c.deps.Provider.Register(ctx, in.Email, in.Password)
	if err != nil {
		return err
	}
	c.saveProfile(ctx, session, in)
	return nil
}

// saveProfile writes the profile record for a new account. A failed write
// does not fail the registration; the home screen falls back to a derived
// display name.
func (c *Controller) saveProfile(ctx context.Context, session *domain.Session, in submission) {
	if session == nil {
		c.deps.Logger.WarnContext(ctx, "Registration returned no session; profile not written", "event", "profile_write_skipped")
		return
	}
	profile := &domain.Profile{
		FullName:  in.FullName,
		Email:     in.Email,
		CreatedAt: c.deps.Now().UTC(),
	}
	if err := c.deps.Store.Set(ctx, domain.ProfilesCollection, session.UID, profile); err != nil {
		c.deps.Logger.WarnContext(ctx, "Could not write profile after registration",
			"event", "profile_write_failure", "uid", session.UID, "error", err)
	}
}
