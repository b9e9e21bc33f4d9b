package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// profileRow is the stored shape of a profile document. createdAt is kept as
// an RFC3339 string so the record matches what other clients write.
type profileRow struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func rowFromProfile(p *domain.Profile) profileRow {
	return profileRow{
		FullName:  p.FullName,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (r profileRow) profile() *domain.Profile {
	p := &domain.Profile{FullName: r.FullName, Email: r.Email}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	return p
}

// ProfileStore implements domain.ProfileStore on SurrealDB documents. Records
// live at <collection>:<id>.
type ProfileStore struct {
	conn *Connection
}

// NewProfileStore creates a profile store on top of a managed connection.
func NewProfileStore(conn *Connection) *ProfileStore {
	return &ProfileStore{conn: conn}
}

var _ domain.ProfileStore = (*ProfileStore)(nil)

// Get returns the record stored under id, or domain.ErrNotFound.
func (s *ProfileStore) Get(ctx context.Context, collection, id string) (*domain.Profile, error) {
	if collection == "" || id == "" {
		return nil, NewDBError(ErrInvalidInput, "get profile: collection and id are required")
	}

	ctx, cancel := timeoutFromContext(ctx, s.conn.QueryTimeout(), ContextKeyQueryTimeout)
	defer cancel()

	query := "SELECT * FROM type::thing($tb, $id)"
	params := map[string]any{"tb": collection, "id": id}

	var row *profileRow
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		row, err = First[profileRow](ctx, db, query, params)
		return err
	})
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("get %s:%s", collection, id))
	}
	if row == nil {
		return nil, fmt.Errorf("%s:%s: %w", collection, id, domain.ErrNotFound)
	}
	return row.profile(), nil
}

// Set creates or replaces the record stored under id.
func (s *ProfileStore) Set(ctx context.Context, collection, id string, p *domain.Profile) error {
	if collection == "" || id == "" || p == nil {
		return NewDBError(ErrInvalidInput, "set profile: collection, id and profile are required")
	}

	ctx, cancel := timeoutFromContext(ctx, s.conn.ExecuteTimeout(), ContextKeyExecuteTimeout)
	defer cancel()

	query := "UPSERT type::thing($tb, $id) CONTENT $data"
	params := map[string]any{"tb": collection, "id": id, "data": rowFromProfile(p)}

	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		return Execute(ctx, db, query, params)
	})
	if err != nil {
		return WrapError(err, fmt.Sprintf("set %s:%s", collection, id))
	}
	return nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
