package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nfrund/frontdoor/internal/domain"
)

const profilesTable = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	full_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (collection, id)
)`

// SQLiteProfileStore keeps profiles in an embedded SQLite database.
type SQLiteProfileStore struct {
	db *sql.DB
}

// OpenSQLiteProfileStore opens (creating if needed) the database at dsn and
// prepares its schema.
func OpenSQLiteProfileStore(ctx context.Context, dsn string) (*SQLiteProfileStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := NewSQLiteProfileStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteProfileStore wraps an already open database.
func NewSQLiteProfileStore(db *sql.DB) *SQLiteProfileStore {
	return &SQLiteProfileStore{db: db}
}

var _ domain.ProfileStore = (*SQLiteProfileStore)(nil)

// Migrate creates the documents table if it does not exist.
func (s *SQLiteProfileStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, profilesTable); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Get returns the profile stored under id.
func (s *SQLiteProfileStore) Get(ctx context.Context, collection, id string) (*domain.Profile, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}

	var (
		p         domain.Profile
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT full_name, email, created_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&p.FullName, &p.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}

// Set inserts or replaces the profile stored under id.
func (s *SQLiteProfileStore) Set(ctx context.Context, collection, id string, p *domain.Profile) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, full_name, email, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			created_at = excluded.created_at
	`, collection, id, p.FullName, p.Email, p.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteProfileStore) Close() error {
	return s.db.Close()
}
