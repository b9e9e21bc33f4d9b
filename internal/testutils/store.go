package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
)

// FakeProfileStore is an in-memory domain.ProfileStore with injectable errors.
type FakeProfileStore struct {
	mu      sync.Mutex
	records map[string]domain.Profile

	GetErr error
	SetErr error

	GetCalls int
	SetCalls int
}

// NewFakeProfileStore creates an empty store.
func NewFakeProfileStore() *FakeProfileStore {
	return &FakeProfileStore{records: make(map[string]domain.Profile)}
}

func key(collection, id string) string { return collection + "/" + id }

// Get implements domain.ProfileStore.
func (s *FakeProfileStore) Get(ctx context.Context, collection, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	p, ok := s.records[key(collection, id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key(collection, id), domain.ErrNotFound)
	}
	return &p, nil
}

// Set implements domain.ProfileStore.
func (s *FakeProfileStore) Set(ctx context.Context, collection, id string, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.records[key(collection, id)] = *p
	return nil
}

// Record returns the stored profile, if any.
func (s *FakeProfileStore) Record(collection, id string) (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[key(collection, id)]
	return p, ok
}
