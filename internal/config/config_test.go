package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ADDR", "IDENTITY_BACKEND", "DOC_STORE", "SURREAL_ACCESS", "TOKEN_TTL", "DB_QUERY_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := New("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetAppAddr())
	assert.Equal(t, BackendSurreal, cfg.GetIdentityBackend())
	assert.Equal(t, BackendSurreal, cfg.GetDocStore())
	assert.Equal(t, "account", cfg.GetDBAccess())
	assert.Equal(t, 24*time.Hour, cfg.GetTokenTTL())
	assert.Equal(t, 5*time.Second, cfg.GetDBQueryTimeout())
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("IDENTITY_BACKEND", " Memory ")
	t.Setenv("DOC_STORE", "FILE")
	t.Setenv("DOC_STORE_PATH", "/tmp/profiles")
	t.Setenv("DB_QUERY_TIMEOUT", "2s")

	cfg, err := New("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.GetIdentityBackend())
	assert.Equal(t, BackendFile, cfg.GetDocStore())
	assert.Equal(t, "/tmp/profiles", cfg.GetDocStorePath())
	assert.Equal(t, 2*time.Second, cfg.GetDBQueryTimeout())
	assert.False(t, cfg.UsesSurreal())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			IdentityBackend:  BackendMemory,
			DocStore:         BackendFile,
			TokenTTL:         time.Hour,
			DBQueryTimeout:   time.Second,
			DBExecuteTimeout: time.Second,
		}
	}

	t.Run("memory and file need no database settings", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("surreal backend requires connection settings", func(t *testing.T) {
		cfg := valid()
		cfg.DocStore = BackendSurreal
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SURREAL_URL")

		cfg.DBUrl, cfg.DBNs, cfg.DBDb = "ws://localhost:8000", "test", "test"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backends are rejected", func(t *testing.T) {
		cfg := valid()
		cfg.IdentityBackend = "firebase"
		cfg.DocStore = "mongo"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IDENTITY_BACKEND")
		assert.Contains(t, err.Error(), "DOC_STORE")
	})

	t.Run("timeouts must be positive", func(t *testing.T) {
		cfg := valid()
		cfg.DBQueryTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}
