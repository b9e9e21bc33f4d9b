package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/identity"
)

// IdentityContextKey is where Identity stores the request's identity provider.
const IdentityContextKey = "identity"

// ErrNoIdentity is returned by handlers reached without the Identity middleware.
var ErrNoIdentity = errors.New("no identity provider on request")

// IdentityOptions configures the auth cookie written by Identity.
type IdentityOptions struct {
	SecureCookie bool
	CookieMaxAge time.Duration
}

// Identity binds the request to its browser's identity client: the client
// ID from ClientSession and the token in the auth cookie. Downstream
// handlers reach it with IdentityFrom. It must run after ClientSession.
func Identity(provider *identity.Provider, opts IdentityOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			jar := NewCookieJar(c, opts.SecureCookie, opts.CookieMaxAge)
			c.Set(IdentityContextKey, domain.IdentityProvider(provider.ForClient(ClientID(c), jar)))
			return next(c)
		}
	}
}

// IdentityFrom returns the provider stored by Identity.
func IdentityFrom(c echo.Context) (domain.IdentityProvider, error) {
	p, ok := c.Get(IdentityContextKey).(domain.IdentityProvider)
	if !ok || p == nil {
		return nil, ErrNoIdentity
	}
	return p, nil
}
