package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/handlers"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/middleware"
	"github.com/nfrund/frontdoor/internal/rendering"
	"github.com/nfrund/frontdoor/internal/testutils"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

type harness struct {
	e        *echo.Echo
	identity *testutils.FakeIdentity
	store    *testutils.FakeProfileStore
	forms    *loginform.Instances
}

// newHarness wires the handlers the way the server does, with a scripted
// identity provider in place of the cookie-bound client.
func newHarness(t *testing.T, current *domain.AuthState) *harness {
	t.Helper()
	h := &harness{
		e:        echo.New(),
		identity: testutils.NewFakeIdentity(current),
		store:    testutils.NewFakeProfileStore(),
		forms:    loginform.NewInstances(time.Hour),
	}

	h.e.Validator = handlers.NewValidator()
	h.e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	h.e.Use(middleware.ClientSession())
	h.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.IdentityContextKey, domain.IdentityProvider(h.identity))
			return next(c)
		}
	})

	renderer := rendering.NewUniversalRenderer()
	authHandler := handlers.NewAuthHandler(h.forms, h.store, renderer)
	homeHandler := handlers.NewHomeHandler(h.store, renderer)

	h.e.GET("/", handlers.RootGet)
	h.e.GET("/login", authHandler.LoginGet)
	h.e.POST("/login", authHandler.LoginPost)
	h.e.POST("/login/mode", authHandler.ModePost)
	h.e.GET("/home", homeHandler.HomeGet)
	h.e.GET("/home/greeting", homeHandler.GreetingGet)
	h.e.POST("/logout", homeHandler.LogoutPost)
	h.e.GET("/ws/session", handlers.NewSessionSocket().Serve)
	return h
}

type requestOption func(*http.Request)

func htmx() requestOption {
	return func(r *http.Request) { r.Header.Set("HX-Request", "true") }
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (h *harness) get(path string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) post(path string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}
