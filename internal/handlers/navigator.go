package handlers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
)

// redirectNavigator records the last navigation requested while a handler
// runs; the handler turns it into the response.
type redirectNavigator struct {
	mu sync.Mutex
	to domain.Route
}

func (n *redirectNavigator) Navigate(to domain.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.to = to
}

func (n *redirectNavigator) Target() (domain.Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.to, n.to != ""
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// redirect sends the browser to route. htmx requests get an HX-Redirect so
// the whole page changes rather than the swapped fragment.
func redirect(c echo.Context, to domain.Route) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", string(to))
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, string(to))
}
