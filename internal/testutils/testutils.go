package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/nfrund/frontdoor/internal/config"
)

// SurrealConfigForTests loads .env.test from the project root, when present,
// and returns a validated config for SurrealDB integration tests. The test is
// skipped in -short mode or when no SURREAL_URL is configured.
func SurrealConfigForTests(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	if root, ok := projectRoot(); ok {
		env, err := godotenv.Read(filepath.Join(root, ".env.test"))
		if err == nil {
			for key, value := range env {
				if os.Getenv(key) == "" {
					t.Setenv(key, value)
				}
			}
		}
	}
	if os.Getenv("SURREAL_URL") == "" {
		t.Skip("SURREAL_URL not set")
	}

	cfg, err := config.New(filepath.Join(os.TempDir(), "frontdoor-no-env"))
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	if cfg.DBNs == "" {
		cfg.DBNs = "frontdoor_test"
	}
	if cfg.DBDb == "" {
		cfg.DBDb = "frontdoor_test"
	}
	return cfg
}

// projectRoot walks up from the working directory to the directory holding go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}
