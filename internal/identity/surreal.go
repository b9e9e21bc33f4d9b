package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/nfrund/frontdoor/internal/database"
	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

// accountRow is the subset of a user record read back after authentication.
type accountRow struct {
	ID    *models.RecordID `json:"id,omitempty"`
	Email string           `json:"email"`
}

// SurrealBackend is an account service built on SurrealDB record access.
// Every sign up, sign in and token check runs on its own short-lived
// connection so record sessions never leak into the shared root connection.
type SurrealBackend struct {
	conn   *database.Connection
	ns     string
	db     string
	access string
}

// NewSurrealBackend creates a backend using the named record access method.
func NewSurrealBackend(conn *database.Connection, ns, db, access string) *SurrealBackend {
	return &SurrealBackend{conn: conn, ns: ns, db: db, access: access}
}

var _ Backend = (*SurrealBackend)(nil)

func (b *SurrealBackend) credentials(email, password string) map[string]any {
	return map[string]any{
		"ns":       b.ns,
		"db":       b.db,
		"ac":       b.access,
		"email":    email,
		"password": password,
	}
}

// SignUp creates a user record through the access method's SIGNUP clause.
func (b *SurrealBackend) SignUp(ctx context.Context, email, password string) (*Grant, error) {
	email = strings.TrimSpace(email)
	if err := checkNewAccount(email, password); err != nil {
		return nil, err
	}

	exists, err := b.accountExists(ctx, email)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	if exists {
		return nil, auth_errors.New(auth_errors.KindEmailInUse, nil)
	}

	scoped, err := b.conn.OpenScoped(ctx)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	defer scoped.Close(ctx)

	token, err := scoped.SignUp(ctx, b.credentials(email, password))
	if err != nil {
		// Lost a race with a concurrent sign up for the same email.
		if strings.Contains(err.Error(), "already exists") {
			return nil, auth_errors.New(auth_errors.KindEmailInUse, err)
		}
		return nil, auth_errors.New(auth_errors.KindUnknown, fmt.Errorf("signup: %w", err))
	}

	session, err := currentAccount(ctx, scoped)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	return &Grant{Token: token, Session: *session}, nil
}

// SignIn verifies credentials through the access method's SIGNIN clause.
func (b *SurrealBackend) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	email = strings.TrimSpace(email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	scoped, err := b.conn.OpenScoped(ctx)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	defer scoped.Close(ctx)

	token, err := scoped.SignIn(ctx, b.credentials(email, password))
	if err != nil {
		// The database does not say why a record sign in failed, so tell an
		// unknown account apart from a bad password with a lookup.
		exists, lookupErr := b.accountExists(ctx, email)
		return nil, classifySignIn(err, exists, lookupErr)
	}

	session, err := currentAccount(ctx, scoped)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	return &Grant{Token: token, Session: *session}, nil
}

// classifySignIn names a failed SIGNIN from the account lookup that followed
// it. When the lookup failed too the database is unreachable, which says
// nothing about the credentials.
func classifySignIn(signInErr error, exists bool, lookupErr error) *auth_errors.Error {
	switch {
	case lookupErr != nil:
		return auth_errors.New(auth_errors.KindUnknown, errors.Join(signInErr, lookupErr))
	case !exists:
		return auth_errors.New(auth_errors.KindUserNotFound, signInErr)
	default:
		return auth_errors.New(auth_errors.KindWrongPassword, signInErr)
	}
}

// Authenticate resolves a record access token to its session.
func (b *SurrealBackend) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	scoped, err := b.conn.OpenScoped(ctx)
	if err != nil {
		return nil, err
	}
	defer scoped.Close(ctx)

	if err := scoped.Authenticate(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	return currentAccount(ctx, scoped)
}

// Invalidate is a no-op: record access tokens are stateless and expire on
// their own, so ending a session means forgetting the token.
func (b *SurrealBackend) Invalidate(ctx context.Context, token string) error {
	return nil
}

func (b *SurrealBackend) accountExists(ctx context.Context, email string) (bool, error) {
	query := "SELECT id FROM user WHERE email = $email"
	params := map[string]any{"email": email}

	var row *accountRow
	err := b.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		row, err = database.First[accountRow](ctx, db, query, params)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("look up account: %w", err)
	}
	return row != nil, nil
}

// currentAccount reads the record the scoped connection is signed in as.
func currentAccount(ctx context.Context, scoped *surrealdb.DB) (*domain.Session, error) {
	row, err := database.First[accountRow](ctx, scoped, "SELECT id, email FROM $auth", nil)
	if err != nil {
		return nil, fmt.Errorf("read signed in account: %w", err)
	}
	if row == nil || row.ID == nil {
		return nil, errors.New("no account bound to session")
	}
	return &domain.Session{UID: fmt.Sprint(row.ID.ID), Email: row.Email}, nil
}
