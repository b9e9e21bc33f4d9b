package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/gatekeeper"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/middleware"
	"github.com/nfrund/frontdoor/internal/rendering"
	"github.com/nfrund/frontdoor/internal/view"
	"github.com/nfrund/frontdoor/internal/view/dto/auth"
	"github.com/nfrund/frontdoor/web/src/templates/layouts"
	"github.com/nfrund/frontdoor/web/src/templates/pages"
)

// AuthHandler serves the login/register screen.
type AuthHandler struct {
	forms    *loginform.Instances
	store    domain.ProfileStore
	renderer rendering.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(forms *loginform.Instances, store domain.ProfileStore, renderer rendering.Renderer) *AuthHandler {
	return &AuthHandler{forms: forms, store: store, renderer: renderer}
}

func cardData(formID string, s loginform.State) auth.LoginCardData {
	return auth.LoginCardData{
		FormID:     formID,
		Register:   s.Mode == loginform.ModeRegister,
		FullName:   s.FullName,
		Email:      s.Email,
		Error:      s.Error,
		Submitting: s.Submitting,
	}
}

// LoginGet renders the login screen, or sends a signed-in browser home.
func (h *AuthHandler) LoginGet(c echo.Context) error {
	provider, err := middleware.IdentityFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	gate := gatekeeper.Mount(ctx, gatekeeper.ScreenLogin, provider, &redirectNavigator{})
	defer gate.Release()

	state, err := gate.First(ctx)
	if err != nil {
		return err
	}
	if to, ok := gatekeeper.Route(gatekeeper.ScreenLogin, state); ok {
		return redirect(c, to)
	}

	mode := loginform.ModeLogin
	if m, ok := loginform.ParseMode(c.QueryParam("mode")); ok {
		mode = m
	}
	id, form := h.forms.Open(mode)
	return h.renderPage(c, http.StatusOK, id, form.State())
}

// LoginPost submits the login card.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	provider, err := middleware.IdentityFrom(c)
	if err != nil {
		return err
	}
	var req LoginFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	ctx := c.Request().Context()
	id, form := h.form(req)
	form.SetFields(req.FullName, req.Email, req.Password)

	nav := &redirectNavigator{}
	ctrl := loginform.New(form, loginform.Deps{
		Provider:  provider,
		Store:     h.store,
		Navigator: nav,
		Logger:    middleware.FromContext(ctx),
	})

	err = ctrl.Submit(ctx)
	switch {
	case err == nil:
		h.forms.Remove(id)
		if to, ok := nav.Target(); ok {
			return redirect(c, to)
		}
		return redirect(c, domain.RouteHome)
	case errors.Is(err, loginform.ErrSubmissionInFlight):
		return h.renderCard(c, http.StatusConflict, id, ctrl.State())
	default:
		return h.renderCard(c, http.StatusUnprocessableEntity, id, ctrl.State())
	}
}

// ModePost switches the card between login and register.
func (h *AuthHandler) ModePost(c echo.Context) error {
	var req LoginFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	id, form := h.form(req)
	return h.renderCard(c, http.StatusOK, id, form.Toggle())
}

// form returns the live form a post belongs to. A form that expired is
// recreated under the posted id in the posted mode; an id this server could
// not have issued gets a fresh form instead.
func (h *AuthHandler) form(req LoginFormRequest) (string, *loginform.Form) {
	mode, ok := loginform.ParseMode(req.Mode)
	if !ok {
		mode = loginform.ModeLogin
	}
	if req.FormID == "" {
		return h.forms.Open(mode)
	}
	if form, ok := h.forms.Lookup(req.FormID); ok {
		return req.FormID, form
	}
	form := loginform.NewForm(mode)
	if err := h.forms.Adopt(req.FormID, form); err != nil {
		return h.forms.Open(mode)
	}
	return req.FormID, form
}

func (h *AuthHandler) renderPage(c echo.Context, status int, id string, s loginform.State) error {
	title := "Login"
	if s.Mode == loginform.ModeRegister {
		title = "Register"
	}
	content := pages.LoginContent(view.GetFlashData(c), cardData(id, s))
	return h.renderer.RenderPage(c, status, layouts.Base(title, string(gatekeeper.ScreenLogin), view.Component(content)))
}

// renderCard answers an htmx request with the card fragment and a plain
// form post with the whole page. htmx only swaps 2xx responses, so the
// fragment is always sent with 200.
func (h *AuthHandler) renderCard(c echo.Context, status int, id string, s loginform.State) error {
	if !isHTMX(c) {
		return h.renderPage(c, status, id, s)
	}
	if status != http.StatusConflict {
		status = http.StatusOK
	}
	return h.renderer.RenderFragment(c, status, pages.LoginCard(cardData(id, s)))
}
