package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// AuthCookieName is the cookie holding the session token.
const AuthCookieName = "auth_token"

// CookieJar keeps one browser's session token in the auth cookie. Writes are
// visible to later reads in the same request.
type CookieJar struct {
	c      echo.Context
	secure bool
	maxAge time.Duration

	mu      sync.Mutex
	token   string
	written bool
}

// NewCookieJar returns the jar for the request in c. maxAge bounds the
// cookie's lifetime; zero makes it a browser-session cookie.
func NewCookieJar(c echo.Context, secure bool, maxAge time.Duration) *CookieJar {
	return &CookieJar{c: c, secure: secure, maxAge: maxAge}
}

// Token returns the current session token, or "".
func (j *CookieJar) Token() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.written {
		return j.token
	}
	cookie, err := j.c.Cookie(AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetToken stores token in the auth cookie.
func (j *CookieJar) SetToken(token string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.token, j.written = token, true
	j.c.SetCookie(j.cookie(token, int(j.maxAge/time.Second)))
	return nil
}

// ClearToken expires the auth cookie.
func (j *CookieJar) ClearToken() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.token, j.written = "", true
	j.c.SetCookie(j.cookie("", -1))
	return nil
}

func (j *CookieJar) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
