package identity

import (
	"context"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/pubsub"
)

var authStateEvent = pubsub.NewEvent[domain.AuthState]("auth.state")

// StateBus fans auth-state changes out to every open screen of the browser
// they happened in.
type StateBus struct {
	bus pubsub.Bus
}

// NewStateBus creates a state bus on top of bus.
func NewStateBus(bus pubsub.Bus) *StateBus {
	return &StateBus{bus: bus}
}

// Publish announces state for clientID.
func (b *StateBus) Publish(ctx context.Context, clientID string, state domain.AuthState) error {
	return pubsub.Publish(ctx, b.bus, authStateEvent, clientID, state)
}

// Subscribe delivers states published for clientID to fn until ctx ends.
func (b *StateBus) Subscribe(ctx context.Context, clientID string, fn func(domain.AuthState)) error {
	return pubsub.Subscribe(ctx, b.bus, authStateEvent, func(_ context.Context, id string, state domain.AuthState) error {
		if id == clientID {
			fn(state)
		}
		return nil
	})
}
