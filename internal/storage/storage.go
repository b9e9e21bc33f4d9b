// Package storage provides domain.ProfileStore implementations that need no
// database server: JSON documents on a filesystem and an embedded SQLite file.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for collection or id values that are empty or
// could escape their collection.
var ErrInvalidKey = errors.New("invalid document key")

func checkKey(collection, id string) error {
	for _, part := range []string{collection, id} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("%w: %q/%q", ErrInvalidKey, collection, id)
		}
	}
	return nil
}
