package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nfrund/frontdoor/internal/config"
	"github.com/nfrund/frontdoor/internal/testutils"
)

// offlineConfig points at no server; it is enough for code paths that never dial.
func offlineConfig() *config.Config {
	return &config.Config{
		DBAccess:         "account",
		DBQueryTimeout:   5 * time.Second,
		DBExecuteTimeout: 10 * time.Second,
	}
}

// setupIntegration connects to the SurrealDB instance configured for tests
// and bootstraps the schema.
func setupIntegration(t *testing.T) *Connection {
	t.Helper()
	cfg := testutils.SurrealConfigForTests(t)

	conn := NewConnection(cfg)
	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	require.NoError(t, EnsureSchema(ctx, conn, cfg.DBAccess))
	return conn
}
