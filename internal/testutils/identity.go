// Package testutils holds fakes and helpers shared by package tests.
package testutils

import (
	"context"
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
)

// FakeIdentity is a scriptable domain.IdentityProvider. Emit pushes states to
// every live observer; SignIn, Register and SignOut return the configured
// results and record their calls.
type FakeIdentity struct {
	mu        sync.Mutex
	observers map[int]func(domain.AuthState)
	nextID    int
	current   *domain.AuthState

	SignInSession   *domain.Session
	SignInErr       error
	RegisterSession *domain.Session
	RegisterErr     error
	SignOutErr      error

	// Block, when set, is waited on by SignIn and Register before returning.
	Block chan struct{}

	SignInCalls   int
	RegisterCalls int
	SignOutCalls  int
	Unsubscribes  int
}

// NewFakeIdentity returns a provider whose observers first see current.
// A nil current means observers see nothing until Emit.
func NewFakeIdentity(current *domain.AuthState) *FakeIdentity {
	return &FakeIdentity{observers: make(map[int]func(domain.AuthState)), current: current}
}

// ObserveAuthState implements domain.IdentityProvider.
func (f *FakeIdentity) ObserveAuthState(ctx context.Context, fn func(domain.AuthState)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.observers[id] = fn
	current := f.current
	f.mu.Unlock()

	if current != nil {
		fn(*current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.observers, id)
			f.Unsubscribes++
			f.mu.Unlock()
		})
	}
}

// Emit delivers state to every live observer and makes it the current state.
func (f *FakeIdentity) Emit(state domain.AuthState) {
	f.mu.Lock()
	f.current = &state
	observers := make([]func(domain.AuthState), 0, len(f.observers))
	for _, fn := range f.observers {
		observers = append(observers, fn)
	}
	f.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// Observers returns the number of live subscriptions.
func (f *FakeIdentity) Observers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}

// SignIn implements domain.IdentityProvider.
func (f *FakeIdentity) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	f.mu.Lock()
	f.SignInCalls++
	session, err, block := f.SignInSession, f.SignInErr, f.Block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return session, err
}

// Register implements domain.IdentityProvider.
func (f *FakeIdentity) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	f.mu.Lock()
	f.RegisterCalls++
	session, err, block := f.RegisterSession, f.RegisterErr, f.Block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return session, err
}

// SignOut implements domain.IdentityProvider.
func (f *FakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOutCalls++
	return f.SignOutErr
}

// Calls returns the number of SignIn, Register and SignOut calls so far.
func (f *FakeIdentity) Calls() (signIn, register, signOut int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SignInCalls, f.RegisterCalls, f.SignOutCalls
}

// Authenticated is a convenience for NewFakeIdentity with a live session.
func Authenticated(uid, email string) *domain.AuthState {
	s := domain.Authenticated(&domain.Session{UID: uid, Email: email})
	return &s
}

// Unauthenticated is a convenience for NewFakeIdentity with no session.
func Unauthenticated() *domain.AuthState {
	s := domain.Unauthenticated()
	return &s
}
