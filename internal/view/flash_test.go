package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/frontdoor/internal/view"
)

var store = sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))

// serve runs fn inside the session middleware for one request carrying
// cookies and returns the recorder.
func serve(t *testing.T, cookies []*http.Cookie, fn func(c echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()

	handler := session.Middleware(store)(func(c echo.Context) error {
		fn(c)
		return nil
	})
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestFlash_SurvivesRedirectOnce(t *testing.T) {
	// POST /logout sets the notice and redirects.
	rec := serve(t, nil, func(c echo.Context) {
		view.SetFlashSuccess(c, "You have been logged out.")
	})
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The login page shows it.
	var first view.FlashData
	rec = serve(t, cookies, func(c echo.Context) { first = view.GetFlashData(c) })
	assert.Equal(t, []string{"You have been logged out."}, first.Success)
	assert.Empty(t, first.Error)

	// A reload does not.
	var second view.FlashData
	serve(t, rec.Result().Cookies(), func(c echo.Context) { second = view.GetFlashData(c) })
	assert.Empty(t, second.Success)
}

func TestFlash_KeepsKindsApart(t *testing.T) {
	var got view.FlashData
	serve(t, nil, func(c echo.Context) {
		view.SetFlashError(c, "Logout failed. Please try again.")
		view.SetFlashSuccess(c, "saved")
		got = view.GetFlashData(c)
	})
	assert.Equal(t, []string{"saved"}, got.Success)
	assert.Equal(t, []string{"Logout failed. Please try again."}, got.Error)
}

func TestFlash_NoneSet(t *testing.T) {
	var got view.FlashData
	rec := serve(t, nil, func(c echo.Context) { got = view.GetFlashData(c) })
	assert.Empty(t, got.Success)
	assert.Empty(t, got.Error)
	assert.Empty(t, rec.Header().Get("Set-Cookie"), "reading no flashes must not rewrite the session")
}
