package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/gatekeeper"
	"github.com/nfrund/frontdoor/internal/home"
	"github.com/nfrund/frontdoor/internal/middleware"
	"github.com/nfrund/frontdoor/internal/rendering"
	"github.com/nfrund/frontdoor/internal/view"
	"github.com/nfrund/frontdoor/internal/view/dto/auth"
	"github.com/nfrund/frontdoor/web/src/templates/layouts"
	"github.com/nfrund/frontdoor/web/src/templates/pages"
)

// MsgLoggedOut is flashed on the login screen after a logout.
const MsgLoggedOut = "You have been logged out."

// HomeHandler serves the signed-in home screen.
type HomeHandler struct {
	store    domain.ProfileStore
	renderer rendering.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(store domain.ProfileStore, renderer rendering.Renderer) *HomeHandler {
	return &HomeHandler{store: store, renderer: renderer}
}

// mount opens the home screen for the request: its gate and controller.
// The caller must release the returned gate.
func (h *HomeHandler) mount(c echo.Context, nav domain.Navigator) (*gatekeeper.Gate, *home.Controller, error) {
	provider, err := middleware.IdentityFrom(c)
	if err != nil {
		return nil, nil, err
	}
	ctx := c.Request().Context()
	gate := gatekeeper.Mount(ctx, gatekeeper.ScreenHome, provider, nav)
	ctrl := home.New(gate, home.Deps{
		Provider:  provider,
		Store:     h.store,
		Navigator: nav,
		Logger:    middleware.FromContext(ctx),
	})
	return gate, ctrl, nil
}

// HomeGet renders the home page shell in its loading state. The greeting is
// fetched by the page itself.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	gate, _, err := h.mount(c, &redirectNavigator{})
	if err != nil {
		return err
	}
	defer gate.Release()

	state, err := gate.First(c.Request().Context())
	if err != nil {
		return err
	}
	if to, ok := gatekeeper.Route(gatekeeper.ScreenHome, state); ok {
		return redirect(c, to)
	}
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Home", string(gatekeeper.ScreenHome), view.Component(pages.HomeLoading())))
}

// GreetingGet resolves the display name and renders the greeting card.
func (h *HomeHandler) GreetingGet(c echo.Context) error {
	gate, ctrl, err := h.mount(c, &redirectNavigator{})
	if err != nil {
		return err
	}
	defer gate.Release()

	v, err := ctrl.Load(c.Request().Context())
	if err != nil {
		return err
	}
	if v.Status == home.StatusSignedOut {
		return redirect(c, domain.RouteLogin)
	}
	return h.renderCard(c, v)
}

// renderCard answers an htmx request with the greeting card and a plain
// form post with the whole home page around it.
func (h *HomeHandler) renderCard(c echo.Context, v home.View) error {
	card := pages.HomeCard(auth.HomeCardData{Name: v.Name, Message: v.Message})
	if isHTMX(c) {
		return h.renderer.RenderFragment(c, http.StatusOK, card)
	}
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Home", string(gatekeeper.ScreenHome), view.Component(card)))
}

// LogoutPost signs the browser out. On failure the greeting stays on screen
// with a retry prompt.
func (h *HomeHandler) LogoutPost(c echo.Context) error {
	nav := &redirectNavigator{}
	gate, ctrl, err := h.mount(c, nav)
	if err != nil {
		return err
	}
	defer gate.Release()

	ctx := c.Request().Context()
	v, err := ctrl.Load(ctx)
	if err != nil {
		return err
	}
	if v.Status == home.StatusSignedOut {
		return redirect(c, domain.RouteLogin)
	}

	if err := ctrl.Logout(ctx); err != nil {
		return h.renderCard(c, ctrl.View())
	}

	view.SetFlashSuccess(c, MsgLoggedOut)
	if to, ok := nav.Target(); ok {
		return redirect(c, to)
	}
	return redirect(c, domain.RouteLogin)
}
