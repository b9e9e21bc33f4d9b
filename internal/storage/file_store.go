package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/nfrund/frontdoor/internal/domain"
)

// FileProfileStore keeps each profile as a JSON document at
// <root>/<collection>/<id>.json on an afero filesystem.
type FileProfileStore struct {
	fs   afero.Fs
	root string
	mu   sync.RWMutex
}

// NewFileProfileStore creates a store rooted at root on fs.
func NewFileProfileStore(fs afero.Fs, root string) *FileProfileStore {
	return &FileProfileStore{fs: fs, root: root}
}

var _ domain.ProfileStore = (*FileProfileStore)(nil)

func (s *FileProfileStore) path(collection, id string) string {
	return filepath.Join(s.root, collection, id+".json")
}

// Get reads the document for id.
func (s *FileProfileStore) Get(ctx context.Context, collection, id string) (*domain.Profile, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := afero.ReadFile(s.fs, s.path(collection, id))
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", collection, id, err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &p, nil
}

// Set writes the document for id, replacing any previous version.
func (s *FileProfileStore) Set(ctx context.Context, collection, id string, p *domain.Profile) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	path := s.path(collection, id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	// Write then rename so readers never see a partial document.
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("commit %s/%s: %w", collection, id, err)
	}
	return nil
}
