package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nfrund/frontdoor/internal/config"
	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/handlers"
	"github.com/nfrund/frontdoor/internal/identity"
	"github.com/nfrund/frontdoor/internal/logging"
	"github.com/nfrund/frontdoor/internal/loginform"
	"github.com/nfrund/frontdoor/internal/pubsub"
	"github.com/nfrund/frontdoor/internal/storage"
)

var formIDPattern = regexp.MustCompile(`name="form_id" value="([^"]+)"`)

type testApp struct {
	srv    *httptest.Server
	fs     afero.Fs
	store  *storage.FileProfileStore
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	bridge := pubsub.NewWatermillBridge(nil)
	t.Cleanup(func() { _ = bridge.Close() })

	backend := identity.NewMemoryBackend("token-secret", time.Hour, identity.WithBcryptCost(bcrypt.MinCost))
	provider := identity.NewProvider(backend, identity.NewStateBus(bridge), logging.Discard())
	fs := afero.NewMemMapFs()
	store := storage.NewFileProfileStore(fs, "data")

	cfg := &config.Config{
		AppBaseURL:    "http://localhost",
		SessionSecret: "a-very-secret-key-for-testing-!",
		TokenTTL:      time.Hour,
	}
	s := New(cfg, logging.Discard(), Deps{
		Identity: provider,
		Store:    store,
		Forms:    loginform.NewInstances(time.Hour),
	})
	s.RegisterRoutes()

	srv := httptest.NewServer(s.E)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{srv: srv, fs: fs, store: store, client: client}
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	return resp, buf.String()
}

func (a *testApp) openLoginForm(t *testing.T) string {
	t.Helper()
	resp, body := a.do(t, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := formIDPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "login page must carry a form id")
	return m[1]
}

// dialSession opens a session socket sharing the browser's cookies.
func (a *testApp) dialSession(t *testing.T, screen string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	u, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(a.srv.URL, "http")+"/ws/session?screen="+screen, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {cookieHeader(a.client.Jar.Cookies(u))}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })

	require.Equal(t, handlers.SocketMessage{Type: "ready"}, readSocket(t, conn))
	return conn
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func readSocket(t *testing.T, conn *websocket.Conn) handlers.SocketMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var msg handlers.SocketMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func TestRegisterGreetLogout(t *testing.T) {
	app := newTestApp(t)
	formID := app.openLoginForm(t)

	resp, _ := app.do(t, http.MethodPost, "/login/mode", url.Values{"form_id": {formID}, "mode": {"login"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/login", url.Values{
		"form_id":   {formID},
		"mode":      {"register"},
		"full_name": {"Ada Lovelace"},
		"email":     {"ada@example.com"},
		"password":  {"secret1"},
	})
	require.Equal(t, "/home", resp.Header.Get("HX-Redirect"))

	// The profile written at registration names the user on the home screen.
	resp, body := app.do(t, http.MethodGet, "/home/greeting", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hey, Ada Lovelace!")

	// A second tab on the home screen follows the logout.
	tab := app.dialSession(t, "home")

	resp, _ = app.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, "/login", resp.Header.Get("HX-Redirect"))
	assert.Equal(t, handlers.SocketMessage{Type: "navigate", To: "/login"}, readSocket(t, tab))

	resp, body = app.do(t, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, handlers.MsgLoggedOut)

	resp, _ = app.do(t, http.MethodGet, "/home/greeting", nil)
	assert.Equal(t, "/login", resp.Header.Get("HX-Redirect"))
}

func TestSignInFromAnotherTab(t *testing.T) {
	app := newTestApp(t)
	formID := app.openLoginForm(t)

	_, body := app.do(t, http.MethodPost, "/login", url.Values{
		"form_id":  {formID},
		"mode":     {"login"},
		"email":    {"nobody@example.com"},
		"password": {"secret1"},
	})
	assert.Contains(t, body, "No account found with this email. Please register first.")

	resp, _ := app.do(t, http.MethodPost, "/login/mode", url.Values{"form_id": {formID}, "mode": {"login"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/login", url.Values{
		"form_id":   {formID},
		"mode":      {"register"},
		"full_name": {"Grace Hopper"},
		"email":     {"grace@example.com"},
		"password":  {"secret1"},
	})
	require.Equal(t, "/home", resp.Header.Get("HX-Redirect"))
	resp, _ = app.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, "/login", resp.Header.Get("HX-Redirect"))

	// One tab waits on the login screen while another signs in.
	waiting := app.dialSession(t, "login")
	formID = app.openLoginForm(t)
	resp, _ = app.do(t, http.MethodPost, "/login", url.Values{
		"form_id":  {formID},
		"mode":     {"login"},
		"email":    {"GRACE@example.com"},
		"password": {"secret1"},
	})
	require.Equal(t, "/home", resp.Header.Get("HX-Redirect"))
	assert.Equal(t, handlers.SocketMessage{Type: "navigate", To: "/home"}, readSocket(t, waiting))

	profile, err := app.store.Get(context.Background(), domain.ProfilesCollection, profileID(t, app))
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", profile.FullName)
}

// profileID returns the id of the only profile on disk.
func profileID(t *testing.T, app *testApp) string {
	t.Helper()
	entries, err := afero.ReadDir(app.fs, "data/"+domain.ProfilesCollection)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return strings.TrimSuffix(entries[0].Name(), ".json")
}

func TestHealthAndStatic(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = app.do(t, http.MethodGet, "/static/session.js", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/ws/session")
}

func TestRootRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/", nil)
	require.NoError(t, err)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestStart_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{SessionSecret: "secret", TokenTTL: time.Hour}
	bridge := pubsub.NewWatermillBridge(nil)
	t.Cleanup(func() { _ = bridge.Close() })
	provider := identity.NewProvider(identity.NewMemoryBackend("s", time.Hour), identity.NewStateBus(bridge), logging.Discard())
	s := New(cfg, logging.Discard(), Deps{Identity: provider, Forms: loginform.NewInstances(time.Minute)})
	s.RegisterRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
