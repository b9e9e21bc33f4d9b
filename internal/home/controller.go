// Package home drives the screen shown to signed-in users.
package home

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/gatekeeper"
)

const (
	// MsgLookupWarning is shown when the profile could not be read and no
	// name could be derived from the session either.
	MsgLookupWarning = "Could not fetch user info. Using default name."

	// MsgLogoutFailed is shown when sign out fails.
	MsgLogoutFailed = "Logout failed. Please try again."
)

// Status is the screen's position in its state machine.
type Status int

const (
	StatusLoading Status = iota
	StatusResolved
	StatusResolvedWithWarning
	// StatusSignedOut means there is no session; the gate is already
	// sending the user to the login screen and nothing is rendered.
	StatusSignedOut
)

// View is what the home screen renders.
type View struct {
	Status        Status
	Name          string
	Message       string
	LogoutPending bool
	Session       *domain.Session
}

// Deps are the collaborators a controller acts through.
type Deps struct {
	Provider  domain.IdentityProvider
	Store     domain.ProfileStore
	Navigator domain.Navigator
	Logger    *slog.Logger
}

// Controller resolves and renders the greeting for the current session and
// handles logout.
type Controller struct {
	gate *gatekeeper.Gate
	deps Deps

	mu   sync.Mutex
	view View
}

// New creates a controller for a home screen guarded by gate.
func New(gate *gatekeeper.Gate, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{gate: gate, deps: deps}
}

// View returns a snapshot of the screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Load waits for the gate's first auth-state event and resolves the display
// name for its session. A profile lookup failure never fails Load.
func (c *Controller) Load(ctx context.Context) (View, error) {
	state, err := c.gate.First(ctx)
	if err != nil {
		return c.View(), err
	}
	if !state.Authenticated || state.Session == nil {
		c.mu.Lock()
		c.view = View{Status: StatusSignedOut}
		c.mu.Unlock()
		return c.View(), nil
	}

	session := state.Session
	var profileName string
	profile, lookupErr := c.deps.Store.Get(ctx, domain.ProfilesCollection, session.UID)
	switch {
	case lookupErr == nil:
		profileName = profile.FullName
	case errors.Is(lookupErr, domain.ErrNotFound):
		c.deps.Logger.DebugContext(ctx, "No profile record, deriving name from email", "event", "profile_missing", "uid", session.UID)
		lookupErr = nil
	default:
		c.deps.Logger.WarnContext(ctx, "Profile lookup failed, using fallback name", "event", "profile_lookup_failure", "uid", session.UID, "error", lookupErr)
	}

	res := ResolveDisplayName(profileName, session.Email)
	view := View{Status: StatusResolved, Name: res.Name, Session: session}
	if lookupErr != nil && res.Source == SourceDefault {
		view.Status = StatusResolvedWithWarning
		view.Message = MsgLookupWarning
	}

	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
	return view, nil
}

// Logout signs the user out and navigates to the login screen. On failure
// the screen stays put, its gate still subscribed, and shows MsgLogoutFailed.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.view.LogoutPending {
		c.mu.Unlock()
		return nil
	}
	c.view.LogoutPending = true
	c.mu.Unlock()

	err := c.deps.Provider.SignOut(ctx)

	c.mu.Lock()
	c.view.LogoutPending = false
	if err != nil {
		c.view.Message = MsgLogoutFailed
	}
	c.mu.Unlock()

	if err != nil {
		c.deps.Logger.ErrorContext(ctx, "Logout failed", "event", "logout_failure", "error", err)
		return err
	}
	c.deps.Navigator.Navigate(domain.RouteLogin)
	return nil
}
