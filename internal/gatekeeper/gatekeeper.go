// Package gatekeeper keeps a screen consistent with the browser's
// authentication state: signed-out users are sent to the login screen and
// signed-in users are sent away from it.
package gatekeeper

import (
	"context"
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
)

// Screen identifies the screen a gate is mounted on.
type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenHome  Screen = "home"
)

// ParseScreen maps a screen name to a Screen.
func ParseScreen(name string) (Screen, bool) {
	switch Screen(name) {
	case ScreenLogin, ScreenHome:
		return Screen(name), true
	default:
		return "", false
	}
}

// Route returns where a screen must send the user for state, if anywhere.
func Route(screen Screen, state domain.AuthState) (domain.Route, bool) {
	switch {
	case screen == ScreenHome && !state.Authenticated:
		return domain.RouteLogin, true
	case screen == ScreenLogin && state.Authenticated:
		return domain.RouteHome, true
	default:
		return "", false
	}
}

// Gate is one screen's subscription to the auth-state stream.
type Gate struct {
	screen Screen
	nav    domain.Navigator

	mu        sync.Mutex
	released  bool
	listeners []func(domain.AuthState)

	first      chan struct{}
	firstState domain.AuthState
	firstOnce  sync.Once

	unsubscribe func()
	releaseOnce sync.Once
}

// Mount subscribes screen to provider's auth-state stream. Each event may
// move the user through nav. The gate holds its subscription until Release.
func Mount(ctx context.Context, screen Screen, provider domain.IdentityProvider, nav domain.Navigator) *Gate {
	g := &Gate{
		screen: screen,
		nav:    nav,
		first:  make(chan struct{}),
	}
	g.unsubscribe = provider.ObserveAuthState(ctx, g.handle)
	return g
}

func (g *Gate) handle(state domain.AuthState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return
	}

	g.firstOnce.Do(func() {
		g.firstState = state
		close(g.first)
	})

	for _, fn := range g.listeners {
		fn(state)
	}
	if to, ok := Route(g.screen, state); ok {
		g.nav.Navigate(to)
	}
}

// Listen registers fn for every auth-state event after the current one.
// Listeners are dropped on Release.
func (g *Gate) Listen(fn func(domain.AuthState)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.released {
		g.listeners = append(g.listeners, fn)
	}
}

// First waits for the first auth-state event seen by the gate.
func (g *Gate) First(ctx context.Context) (domain.AuthState, error) {
	select {
	case <-g.first:
		return g.firstState, nil
	case <-ctx.Done():
		return domain.AuthState{}, ctx.Err()
	}
}

// Release ends the subscription. It is safe to call more than once; after it
// returns neither the navigator nor any listener is called again.
func (g *Gate) Release() {
	g.releaseOnce.Do(func() {
		g.mu.Lock()
		g.released = true
		g.listeners = nil
		g.mu.Unlock()

		g.unsubscribe()
	})
}

// Released reports whether Release has been called.
func (g *Gate) Released() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}
