// Package identity binds the application to an account service and exposes
// it as a domain.IdentityProvider scoped to one browser.
package identity

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

// MinPasswordLength is the shortest password an account service accepts.
const MinPasswordLength = 6

// Grant is the result of a successful sign in or sign up: a bearer token
// identifying the new session, plus the session itself.
type Grant struct {
	Token   string
	Session domain.Session
}

// Backend is an account service. Failures are reported as *auth_errors.Error.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (*Grant, error)
	SignIn(ctx context.Context, email, password string) (*Grant, error)

	// Authenticate resolves a token to its session. It returns
	// domain.ErrNotAuthenticated for unknown, expired or revoked tokens.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)

	// Invalidate ends the session identified by token.
	Invalidate(ctx context.Context, token string) error
}

var validate = validator.New()

// checkEmail rejects malformed addresses with KindInvalidEmail.
func checkEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return auth_errors.New(auth_errors.KindInvalidEmail, err)
	}
	return nil
}

// checkNewAccount applies the rules an account service enforces on sign up.
func checkNewAccount(email, password string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return auth_errors.New(auth_errors.KindWeakPassword, errors.New("password too short"))
	}
	return nil
}
