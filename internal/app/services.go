package app

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/frontdoor/internal/database"
	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/pubsub"
)

// Tracing owns the tracer used by the message bus.
type Tracing struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error { return t.shutdown(ctx) }

// Bus owns the process-wide message bus carrying auth-state changes.
type Bus struct {
	*pubsub.WatermillBridge
}

// Shutdown closes the bus and ends every subscription.
func (b *Bus) Shutdown() error { return b.Close() }

// Database owns the SurrealDB connection. Conn is nil when no configured
// backend uses SurrealDB.
type Database struct {
	Conn *database.Connection
}

// Shutdown closes the connection.
func (d *Database) Shutdown(ctx context.Context) error {
	if d.Conn == nil {
		return nil
	}
	return d.Conn.Close(ctx)
}

// Documents owns the configured profile store.
type Documents struct {
	Store  domain.ProfileStore
	closer io.Closer
}

// Shutdown releases the store's resources, if it holds any.
func (d *Documents) Shutdown() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
