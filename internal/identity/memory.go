package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
)

type account struct {
	uid   string
	email string
	hash  []byte
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// MemoryBackend is a process-local account service. Passwords are bcrypt
// hashed and sessions are HS256 tokens; accounts are lost on restart.
type MemoryBackend struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by case-folded email
	revoked  map[string]time.Time

	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithBcryptCost sets the bcrypt cost used for new accounts.
func WithBcryptCost(cost int) MemoryOption {
	return func(b *MemoryBackend) { b.cost = cost }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(b *MemoryBackend) { b.now = now }
}

// NewMemoryBackend creates an empty account service signing tokens with secret.
func NewMemoryBackend(secret string, ttl time.Duration, opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		accounts: make(map[string]*account),
		revoked:  make(map[string]time.Time),
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ Backend = (*MemoryBackend)(nil)

func foldEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// SignUp creates an account and returns a grant for it.
func (b *MemoryBackend) SignUp(ctx context.Context, email, password string) (*Grant, error) {
	email = strings.TrimSpace(email)
	if err := checkNewAccount(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, fmt.Errorf("hash password: %w", err))
	}

	key := foldEmail(email)
	b.mu.Lock()
	if _, exists := b.accounts[key]; exists {
		b.mu.Unlock()
		return nil, auth_errors.New(auth_errors.KindEmailInUse, nil)
	}
	acct := &account{uid: uuid.NewString(), email: email, hash: hash}
	b.accounts[key] = acct
	b.mu.Unlock()

	return b.grant(acct)
}

// SignIn verifies the credentials and returns a grant for the account.
func (b *MemoryBackend) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	if err := checkEmail(strings.TrimSpace(email)); err != nil {
		return nil, err
	}

	b.mu.RLock()
	acct, ok := b.accounts[foldEmail(email)]
	b.mu.RUnlock()
	if !ok {
		return nil, auth_errors.New(auth_errors.KindUserNotFound, nil)
	}

	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, auth_errors.New(auth_errors.KindWrongPassword, nil)
	}
	return b.grant(acct)
}

func (b *MemoryBackend) grant(acct *account) (*Grant, error) {
	now := b.now()
	claims := sessionClaims{
		Email: acct.email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acct.uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return nil, auth_errors.New(auth_errors.KindUnknown, fmt.Errorf("sign token: %w", err))
	}
	return &Grant{Token: token, Session: domain.Session{UID: acct.uid, Email: acct.email}}, nil
}

func (b *MemoryBackend) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, error) {
	claims := &sessionClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Authenticate resolves a token to its session.
func (b *MemoryBackend) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := b.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, revoked := b.revoked[claims.ID]; revoked {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrNotAuthenticated)
	}
	acct, ok := b.accounts[foldEmail(claims.Email)]
	if !ok || acct.uid != claims.Subject {
		return nil, fmt.Errorf("%w: account no longer exists", domain.ErrNotAuthenticated)
	}
	return &domain.Session{UID: acct.uid, Email: acct.email}, nil
}

// Invalidate revokes token. Expired tokens are accepted and ignored.
func (b *MemoryBackend) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := b.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for id, exp := range b.revoked {
		if now.After(exp) {
			delete(b.revoked, id)
		}
	}
	exp := now.Add(b.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	b.revoked[claims.ID] = exp
	return nil
}
