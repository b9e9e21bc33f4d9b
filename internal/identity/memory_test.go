package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

const testTokenSecret = "test-token-secret"

func newTestMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	opts = append([]MemoryOption{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewMemoryBackend(testTokenSecret, time.Hour, opts...)
}

func TestMemoryBackend_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	b := newTestMemoryBackend()

	grant, err := b.SignUp(ctx, "Ada@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.Token)
	assert.NotEmpty(t, grant.Session.UID)
	assert.Equal(t, "Ada@Example.com", grant.Session.Email)

	again, err := b.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, grant.Session.UID, again.Session.UID)

	session, err := b.Authenticate(ctx, again.Token)
	require.NoError(t, err)
	assert.Equal(t, grant.Session.UID, session.UID)
}

func TestMemoryBackend_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	b := newTestMemoryBackend()
	_, err := b.SignUp(ctx, "taken@x.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want auth_errors.Kind
	}{
		{"unknown account", func() error { _, err := b.SignIn(ctx, "nobody@x.com", "secret1"); return err }, auth_errors.KindUserNotFound},
		{"wrong password", func() error { _, err := b.SignIn(ctx, "taken@x.com", "nope123"); return err }, auth_errors.KindWrongPassword},
		{"duplicate email", func() error { _, err := b.SignUp(ctx, "TAKEN@x.com", "secret1"); return err }, auth_errors.KindEmailInUse},
		{"malformed email on sign up", func() error { _, err := b.SignUp(ctx, "not-an-email", "secret1"); return err }, auth_errors.KindInvalidEmail},
		{"malformed email on sign in", func() error { _, err := b.SignIn(ctx, "not-an-email", "secret1"); return err }, auth_errors.KindInvalidEmail},
		{"short password", func() error { _, err := b.SignUp(ctx, "new@x.com", "12345"); return err }, auth_errors.KindWeakPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth_errors.KindOf(tc.call()))
		})
	}
}

func TestMemoryBackend_Invalidate(t *testing.T) {
	ctx := context.Background()
	b := newTestMemoryBackend()
	grant, err := b.SignUp(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, b.Invalidate(ctx, grant.Token))
	_, err = b.Authenticate(ctx, grant.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	assert.NoError(t, b.Invalidate(ctx, ""))
	assert.Error(t, b.Invalidate(ctx, "garbage"))
}

func TestMemoryBackend_ExpiredAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	b := newTestMemoryBackend(WithClock(func() time.Time { return now }))
	grant, err := b.SignUp(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = b.Authenticate(ctx, grant.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	other := NewMemoryBackend("another-secret", time.Hour, WithBcryptCost(bcrypt.MinCost))
	foreign, err := other.SignUp(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)
	_, err = b.Authenticate(ctx, foreign.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
