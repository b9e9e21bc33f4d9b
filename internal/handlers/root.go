package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/gatekeeper"
	"github.com/nfrund/frontdoor/internal/middleware"
)

// RootGet sends the browser to the screen matching its session.
func RootGet(c echo.Context) error {
	provider, err := middleware.IdentityFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	gate := gatekeeper.Mount(ctx, gatekeeper.ScreenHome, provider, &redirectNavigator{})
	defer gate.Release()

	state, err := gate.First(ctx)
	if err != nil {
		return err
	}
	if to, ok := gatekeeper.Route(gatekeeper.ScreenHome, state); ok {
		return redirect(c, to)
	}
	return redirect(c, domain.RouteHome)
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	IsHealthy() bool
}

// Health returns the health endpoint. db may be nil when no database is in use.
func Health(db HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
		}
		if !db.IsHealthy() {
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unavailable"})
		}
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
