package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

// TokenJar holds the session token for one browser, typically in a cookie.
type TokenJar interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

// Provider hands out identity clients bound to a browser.
type Provider struct {
	backend Backend
	states  *StateBus
	logger  *slog.Logger
}

// NewProvider creates a provider over backend that announces state changes on states.
func NewProvider(backend Backend, states *StateBus, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{backend: backend, states: states, logger: logger}
}

// ForClient returns the identity provider for the browser with clientID,
// whose session token lives in jar.
func (p *Provider) ForClient(clientID string, jar TokenJar) *Client {
	return &Client{
		backend:  p.backend,
		states:   p.states,
		logger:   p.logger.With("client_id", clientID),
		clientID: clientID,
		jar:      jar,
	}
}

// Client implements domain.IdentityProvider for a single browser.
type Client struct {
	backend  Backend
	states   *StateBus
	logger   *slog.Logger
	clientID string
	jar      TokenJar
}

var _ domain.IdentityProvider = (*Client)(nil)

// ObserveAuthState delivers the browser's current state, then every change
// announced for it. fn is called from a single goroutine and must not call
// the returned unsubscribe function itself.
func (c *Client) ObserveAuthState(ctx context.Context, fn func(domain.AuthState)) func() {
	subCtx, cancel := context.WithCancel(ctx)

	var (
		mu     sync.Mutex
		closed bool
	)
	deliver := func(state domain.AuthState) {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			fn(state)
		}
	}

	ready := make(chan struct{})
	err := c.states.Subscribe(subCtx, c.clientID, func(state domain.AuthState) {
		select {
		case <-ready:
		case <-subCtx.Done():
			return
		}
		deliver(state)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Auth state subscription failed; only the current state will be reported",
			"event", "auth_state_subscribe_failure", "error", err)
	}

	go func() {
		deliver(c.current(subCtx))
		close(ready)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			closed = true
			mu.Unlock()
			cancel()
		})
	}
}

func (c *Client) current(ctx context.Context) domain.AuthState {
	token := c.jar.Token()
	if token == "" {
		return domain.Unauthenticated()
	}
	session, err := c.backend.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			c.logger.WarnContext(ctx, "Could not verify session token", "event", "auth_verify_failure", "error", err)
		}
		return domain.Unauthenticated()
	}
	return domain.Authenticated(session)
}

// SignIn verifies credentials and starts a session for the browser.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	grant, err := c.backend.SignIn(ctx, email, password)
	if err != nil {
		c.logger.WarnContext(ctx, "Sign in failed", "event", "auth_failure", "email", email, "kind", auth_errors.KindOf(err), "error", err)
		return nil, err
	}
	return c.start(ctx, grant)
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	grant, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		c.logger.WarnContext(ctx, "Registration failed", "event", "register_failure", "email", email, "kind", auth_errors.KindOf(err), "error", err)
		return nil, err
	}
	return c.start(ctx, grant)
}

func (c *Client) start(ctx context.Context, grant *Grant) (*domain.Session, error) {
	if err := c.jar.SetToken(grant.Token); err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, err)
	}
	session := grant.Session
	c.publish(ctx, domain.Authenticated(&session))
	c.logger.InfoContext(ctx, "Session started", "event", "session_start", "uid", session.UID)
	return &session, nil
}

// SignOut ends the browser's session.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.backend.Invalidate(ctx, c.jar.Token()); err != nil {
		c.logger.ErrorContext(ctx, "Sign out failed", "event", "signout_failure", "error", err)
		return err
	}
	if err := c.jar.ClearToken(); err != nil {
		return err
	}
	c.publish(ctx, domain.Unauthenticated())
	c.logger.InfoContext(ctx, "Session ended", "event", "session_end")
	return nil
}

func (c *Client) publish(ctx context.Context, state domain.AuthState) {
	if err := c.states.Publish(ctx, c.clientID, state); err != nil {
		c.logger.WarnContext(ctx, "Could not announce auth state change", "event", "auth_state_publish_failure", "error", err)
	}
}
