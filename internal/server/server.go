package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/frontdoor/internal/config"
	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/handlers"
	"github.com/nfrund/frontdoor/internal/identity"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/middleware"
	"github.com/nfrund/frontdoor/internal/rendering"
	"github.com/nfrund/frontdoor/web"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Identity *identity.Provider
	Store    domain.ProfileStore
	Forms    *loginform.Instances
	// Health reports database availability; nil when no database is used.
	Health handlers.HealthChecker
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E      *echo.Echo
	Cfg    config.Provider
	logger *slog.Logger
	deps   Deps

	renderer *rendering.UniversalRenderer
}

// New creates a new Server instance with its middleware chain in place.
// Routes are added by RegisterRoutes.
func New(cfg config.Provider, logger *slog.Logger, deps Deps) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()

	renderer := rendering.NewUniversalRenderer()
	e.Renderer = renderer

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	secure := strings.HasPrefix(cfg.GetAppBaseURL(), "https://")
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.ClientSession())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Identity(deps.Identity, middleware.IdentityOptions{
		SecureCookie: secure,
		CookieMaxAge: cfg.GetTokenTTL(),
	}))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	return &Server{
		E:        e,
		Cfg:      cfg,
		logger:   logger,
		deps:     deps,
		renderer: renderer,
	}
}
