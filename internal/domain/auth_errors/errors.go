package auth_errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the identity provider. The values are
// the provider's wire codes so they can be logged as-is.
type Kind string

const (
	// KindUserNotFound indicates a sign-in for an email with no account.
	KindUserNotFound Kind = "auth/user-not-found"

	// KindWrongPassword indicates the account exists but the password did not match.
	KindWrongPassword Kind = "auth/wrong-password"

	// KindInvalidCredential indicates the provider rejected the email/password
	// pair without saying which half was wrong.
	KindInvalidCredential Kind = "auth/invalid-credential"

	// KindEmailInUse indicates a registration for an email that already has an account.
	KindEmailInUse Kind = "auth/email-already-in-use"

	// KindInvalidEmail indicates the email address is malformed.
	KindInvalidEmail Kind = "auth/invalid-email"

	// KindWeakPassword indicates the password does not meet the provider's policy.
	KindWeakPassword Kind = "auth/weak-password"

	// KindUnknown covers every other provider failure (network, internal errors).
	KindUnknown Kind = "auth/unknown"
)

// Error is a provider-reported authentication failure.
type Error struct {
	Kind Kind
	Err  error
}

// New creates an Error of the given kind wrapping err. err may be nil.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Error returns the provider code, followed by the underlying error if any.
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, auth_errors.New(auth_errors.KindEmailInUse, nil)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind from err. Errors that do not carry one, including
// nil, report KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != "" {
		return ae.Kind
	}
	return KindUnknown
}
