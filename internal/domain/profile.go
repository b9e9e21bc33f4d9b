package domain

import (
	"context"
	"time"
)

// ProfilesCollection is the document store collection holding profile records.
const ProfilesCollection = "users"

// Profile is the supplementary user record kept in the document store, keyed
// by Session.UID.
type Profile struct {
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileStore is the capability set the application consumes from the
// document store.
type ProfileStore interface {
	// Get returns the record stored under id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Profile, error)

	// Set creates or replaces the record stored under id.
	Set(ctx context.Context, collection, id string, p *Profile) error
}
