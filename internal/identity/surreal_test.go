package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/frontdoor/internal/config"
	"github.com/nfrund/frontdoor/internal/database"
	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
	"github.com/nfrund/frontdoor/internal/testutils"
)

func setupSurrealBackend(t *testing.T) *SurrealBackend {
	t.Helper()
	cfg := testutils.SurrealConfigForTests(t)

	conn := database.NewConnection(cfg)
	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	t.Cleanup(func() { _ = conn.Close(context.Background()) })
	require.NoError(t, database.EnsureSchema(ctx, conn, cfg.DBAccess))

	return NewSurrealBackend(conn, cfg.DBNs, cfg.DBDb, cfg.DBAccess)
}

func TestSurrealBackend_Integration(t *testing.T) {
	b := setupSurrealBackend(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	grant, err := b.SignUp(ctx, email, "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.Token)
	assert.NotEmpty(t, grant.Session.UID)

	_, err = b.SignUp(ctx, email, "secret1")
	assert.Equal(t, auth_errors.KindEmailInUse, auth_errors.KindOf(err))

	signedIn, err := b.SignIn(ctx, email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, grant.Session.UID, signedIn.Session.UID)

	_, err = b.SignIn(ctx, email, "wrong-password")
	assert.Equal(t, auth_errors.KindWrongPassword, auth_errors.KindOf(err))

	_, err = b.SignIn(ctx, "missing-"+email, "secret1")
	assert.Equal(t, auth_errors.KindUserNotFound, auth_errors.KindOf(err))

	session, err := b.Authenticate(ctx, signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, email, session.Email)

	_, err = b.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestSurrealBackend_PrechecksNeedNoDatabase(t *testing.T) {
	b := NewSurrealBackend(database.NewConnection(&config.Config{}), "ns", "db", "account")
	ctx := context.Background()

	_, err := b.SignUp(ctx, "bad", "secret1")
	assert.Equal(t, auth_errors.KindInvalidEmail, auth_errors.KindOf(err))

	_, err = b.SignUp(ctx, "ok@x.com", "123")
	assert.Equal(t, auth_errors.KindWeakPassword, auth_errors.KindOf(err))

	_, err = b.SignIn(ctx, "bad", "secret1")
	assert.Equal(t, auth_errors.KindInvalidEmail, auth_errors.KindOf(err))

	_, err = b.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestClassifySignIn(t *testing.T) {
	rejected := errors.New("there was a problem with authentication")

	err := classifySignIn(rejected, false, nil)
	assert.Equal(t, auth_errors.KindUserNotFound, err.Kind)

	err = classifySignIn(rejected, true, nil)
	assert.Equal(t, auth_errors.KindWrongPassword, err.Kind)

	lookupFailed := errors.New("dial tcp: connection refused")
	err = classifySignIn(rejected, false, lookupFailed)
	assert.Equal(t, auth_errors.KindUnknown, err.Kind)
	assert.ErrorIs(t, err, lookupFailed)
	assert.Equal(t, auth_errors.DefaultMessage, auth_errors.Message(err))
}
