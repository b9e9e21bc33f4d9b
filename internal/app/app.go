// Package app assembles the application's services from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/frontdoor/internal/config"
	"github.com/nfrund/frontdoor/internal/database"
	"github.com/nfrund/frontdoor/internal/identity"
	"github.com/nfrund/frontdoor/internal/logging"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/pubsub"
	"github.com/nfrund/frontdoor/internal/server"
	"github.com/nfrund/frontdoor/internal/storage"
)

// formTTL is how long an untouched login form stays registered.
const formTTL = 30 * time.Minute

// connectTimeout bounds the initial database connection.
const connectTimeout = 15 * time.Second

// App is the assembled application.
type App struct {
	injector *do.RootScope
}

// New registers every service for cfg. Nothing is constructed until it is
// first needed.
func New(cfg *config.Config) *App {
	i := do.New()
	do.ProvideValue(i, cfg)
	do.Provide(i, provideLogger)
	do.Provide(i, provideTracing)
	do.Provide(i, provideBus)
	do.Provide(i, provideDatabase)
	do.Provide(i, provideBackend)
	do.Provide(i, provideDocuments)
	do.Provide(i, provideIdentity)
	do.Provide(i, provideForms)
	do.Provide(i, provideServer)
	return &App{injector: i}
}

// Server builds the HTTP server and everything it depends on.
func (a *App) Server() (*server.Server, error) {
	return do.Invoke[*server.Server](a.injector)
}

// Run serves HTTP on addr until ctx is cancelled.
func (a *App) Run(ctx context.Context, addr string) error {
	s, err := a.Server()
	if err != nil {
		return err
	}
	s.RegisterRoutes()
	return s.Start(ctx, addr)
}

// Shutdown stops every service that was started, dependents first.
func (a *App) Shutdown(ctx context.Context) error {
	report := a.injector.ShutdownWithContext(ctx)
	if report != nil && !report.Succeed {
		return report
	}
	return nil
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()), nil
}

func provideTracing(i do.Injector) (*Tracing, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tracer, shutdown, err := pubsub.SetupTracing(context.Background(), pubsub.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: cfg.GetTracingServiceName(),
		ZipkinURL:   cfg.GetTracingZipkinURL(),
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	return &Tracing{Tracer: tracer, shutdown: shutdown}, nil
}

func provideBus(i do.Injector) (*Bus, error) {
	tracing, err := do.Invoke[*Tracing](i)
	if err != nil {
		return nil, err
	}
	return &Bus{WatermillBridge: pubsub.NewWatermillBridge(tracing.Tracer)}, nil
}

func provideDatabase(i do.Injector) (*Database, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	if !cfg.UsesSurreal() {
		return &Database{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if cfg.GetDBBootstrap() {
		if err := database.EnsureSchema(ctx, conn, cfg.GetDBAccess()); err != nil {
			_ = conn.Close(context.Background())
			return nil, err
		}
	}
	conn.StartMonitoring()
	logger.Info("Database ready", "ns", cfg.GetDBNs(), "db", cfg.GetDBDb())
	return &Database{Conn: conn}, nil
}

func provideBackend(i do.Injector) (identity.Backend, error) {
	cfg := do.MustInvoke[*config.Config](i)
	switch cfg.GetIdentityBackend() {
	case config.BackendMemory:
		return identity.NewMemoryBackend(cfg.GetTokenSecret(), cfg.GetTokenTTL()), nil
	case config.BackendSurreal:
		db, err := do.Invoke[*Database](i)
		if err != nil {
			return nil, err
		}
		return identity.NewSurrealBackend(db.Conn, cfg.GetDBNs(), cfg.GetDBDb(), cfg.GetDBAccess()), nil
	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.GetIdentityBackend())
	}
}

func provideDocuments(i do.Injector) (*Documents, error) {
	cfg := do.MustInvoke[*config.Config](i)
	switch cfg.GetDocStore() {
	case config.BackendSurreal:
		db, err := do.Invoke[*Database](i)
		if err != nil {
			return nil, err
		}
		return &Documents{Store: database.NewProfileStore(db.Conn)}, nil
	case config.BackendFile:
		return &Documents{Store: storage.NewFileProfileStore(afero.NewOsFs(), cfg.GetDocStorePath())}, nil
	case config.BackendSQLite:
		if err := afero.NewOsFs().MkdirAll(cfg.GetDocStorePath(), 0o755); err != nil {
			return nil, fmt.Errorf("create document store directory: %w", err)
		}
		store, err := storage.OpenSQLiteProfileStore(context.Background(), filepath.Join(cfg.GetDocStorePath(), "profiles.db"))
		if err != nil {
			return nil, err
		}
		return &Documents{Store: store, closer: store}, nil
	default:
		return nil, fmt.Errorf("unknown document store %q", cfg.GetDocStore())
	}
}

func provideIdentity(i do.Injector) (*identity.Provider, error) {
	backend, err := do.Invoke[identity.Backend](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*Bus](i)
	if err != nil {
		return nil, err
	}
	logger := do.MustInvoke[*slog.Logger](i)
	return identity.NewProvider(backend, identity.NewStateBus(bus), logger), nil
}

func provideForms(do.Injector) (*loginform.Instances, error) {
	return loginform.NewInstances(formTTL), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	provider, err := do.Invoke[*identity.Provider](i)
	if err != nil {
		return nil, err
	}
	docs, err := do.Invoke[*Documents](i)
	if err != nil {
		return nil, err
	}

	deps := server.Deps{
		Identity: provider,
		Store:    docs.Store,
		Forms:    do.MustInvoke[*loginform.Instances](i),
	}
	if cfg.UsesSurreal() {
		db, err := do.Invoke[*Database](i)
		if err != nil {
			return nil, err
		}
		deps.Health = db.Conn
	}
	return server.New(cfg, logger, deps), nil
}
