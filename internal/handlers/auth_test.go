package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/domain/auth_errors"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/testutils"
)

const expiredFormID = "5f0c1d9e-8a7b-4c3d-9e2f-1a0b9c8d7e6f"

func TestLoginGet_SignedOutRendersForm(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.get("/login")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `id="auth-card"`)
	assert.Contains(t, body, `data-screen="login"`)
	assert.Equal(t, 1, h.forms.Len())
	assert.Equal(t, 0, h.identity.Observers(), "gate must be released when the request ends")
}

func TestLoginGet_RegisterModeFromQuery(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.get("/login?mode=register")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="full_name"`)
}

func TestLoginGet_SignedInRedirectsHome(t *testing.T) {
	h := newHarness(t, testutils.Authenticated("u1", "ada@example.com"))

	rec := h.get("/login")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	rec = h.get("/login", htmx())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("HX-Redirect"))
}

func TestLoginPost_MissingFieldsNeverReachProvider(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.post("/login", url.Values{"mode": {"login"}, "email": {"ada@example.com"}}, htmx())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), loginform.MsgRequiredFields)
	assert.Contains(t, rec.Body.String(), `value="ada@example.com"`)
	signIn, register, _ := h.identity.Calls()
	assert.Zero(t, signIn)
	assert.Zero(t, register)
}

func TestLoginPost_SignInSuccess(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	h.identity.SignInSession = &domain.Session{UID: "u1", Email: "ada@example.com"}
	id, _ := h.forms.Open(loginform.ModeLogin)

	rec := h.post("/login", url.Values{
		"form_id":  {id},
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret1"},
	}, htmx())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("HX-Redirect"))
	assert.Zero(t, h.forms.Len(), "finished form is dropped")
	signIn, _, _ := h.identity.Calls()
	assert.Equal(t, 1, signIn)
}

func TestLoginPost_ProviderErrorShowsMappedMessage(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	h.identity.SignInErr = auth_errors.New(auth_errors.KindWrongPassword, nil)

	rec := h.post("/login", url.Values{
		"form_id":  {expiredFormID},
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"nope123"},
	}, htmx())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), auth_errors.MessageFor(auth_errors.KindWrongPassword))
	assert.Contains(t, rec.Body.String(), `name="form_id" value="`+expiredFormID+`"`)
	assert.Equal(t, 1, h.forms.Len(), "expired form is adopted under its old id")

	form, ok := h.forms.Lookup(expiredFormID)
	require.True(t, ok)
	assert.Empty(t, form.State().Password, "password is not kept after a failed submit")
}

func TestLoginPost_ForeignFormIDGetsFreshForm(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.post("/login", url.Values{
		"form_id": {"../not-a-form"},
		"mode":    {"login"},
	}, htmx())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "not-a-form")
	_, ok := h.forms.Lookup("../not-a-form")
	assert.False(t, ok)
	assert.Equal(t, 1, h.forms.Len())
}

func TestLoginPost_PlainFormErrorRendersFullPage(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.post("/login", url.Values{"mode": {"login"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
	assert.Contains(t, rec.Body.String(), loginform.MsgRequiredFields)
}

func TestLoginPost_RegisterWritesProfile(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	h.identity.RegisterSession = &domain.Session{UID: "u42", Email: "ada@example.com"}

	rec := h.post("/login", url.Values{
		"mode":      {"register"},
		"full_name": {"Ada Lovelace"},
		"email":     {"ada@example.com"},
		"password":  {"secret1"},
	}, htmx())

	assert.Equal(t, "/home", rec.Header().Get("HX-Redirect"))
	profile, ok := h.store.Record(domain.ProfilesCollection, "u42")
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestLoginPost_SubmissionInFlight(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	h.identity.Block = make(chan struct{})
	h.identity.SignInSession = &domain.Session{UID: "u1", Email: "ada@example.com"}
	id, _ := h.forms.Open(loginform.ModeLogin)
	form := url.Values{"form_id": {id}, "mode": {"login"}, "email": {"ada@example.com"}, "password": {"secret1"}}

	done := make(chan int, 1)
	go func() { done <- h.post("/login", form, htmx()).Code }()
	require.Eventually(t, func() bool {
		signIn, _, _ := h.identity.Calls()
		return signIn == 1
	}, 2*time.Second, 5*time.Millisecond)

	rec := h.post("/login", form, htmx())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="btn btn-primary" disabled`)

	close(h.identity.Block)
	assert.Equal(t, http.StatusOK, <-done)
	signIn, _, _ := h.identity.Calls()
	assert.Equal(t, 1, signIn, "second submit must not reach the provider")
}

func TestModePost_TogglesAndClears(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	id, form := h.forms.Open(loginform.ModeLogin)
	form.SetFields("", "ada@example.com", "secret1")

	rec := h.post("/login/mode", url.Values{"form_id": {id}, "mode": {"login"}}, htmx())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="full_name"`)
	assert.Contains(t, body, "Already have an account? Login")
	assert.NotContains(t, body, "ada@example.com")
	assert.Equal(t, loginform.ModeRegister, form.State().Mode)
}
