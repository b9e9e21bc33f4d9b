package domain

import "context"

// Session is one authenticated identity as reported by the identity provider.
// The application observes sessions but never mutates them.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// AuthState is a single event on the provider's authentication-state stream.
type AuthState struct {
	Authenticated bool     `json:"authenticated"`
	Session       *Session `json:"session,omitempty"`
}

// Authenticated builds the state event for a live session.
func Authenticated(s *Session) AuthState {
	return AuthState{Authenticated: true, Session: s}
}

// Unauthenticated builds the state event for a missing session.
func Unauthenticated() AuthState {
	return AuthState{}
}

// IdentityProvider is the capability set the application consumes from the
// identity service. Implementations own session lifetime and persistence.
type IdentityProvider interface {
	// ObserveAuthState registers fn for auth-state events. The current state
	// is delivered first, followed by every later change. The returned
	// function releases the subscription; fn is never invoked after it returns.
	ObserveAuthState(ctx context.Context, fn func(AuthState)) (unsubscribe func())

	// SignIn verifies credentials and starts a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// Register creates an account and starts a session for it.
	Register(ctx context.Context, email, password string) (*Session, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error
}
