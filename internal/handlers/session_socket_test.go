package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/handlers"
	"github.com/nfrund/frontdoor/internal/testutils"
)

func readMessage(t *testing.T, conn *websocket.Conn) handlers.SocketMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var msg handlers.SocketMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

// dialSession opens a session socket and waits until it is ready.
func dialSession(t *testing.T, srv *httptest.Server, screen string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session?screen=" + screen
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })

	require.Equal(t, handlers.SocketMessage{Type: "ready"}, readMessage(t, conn))
	return conn
}

func TestSessionSocket_PushesNavigationOnSignOut(t *testing.T) {
	h := newHarness(t, testutils.Authenticated("u1", "ada@example.com"))
	srv := httptest.NewServer(h.e)
	defer srv.Close()

	conn := dialSession(t, srv, "home")
	assert.Equal(t, 1, h.identity.Observers())

	h.identity.Emit(domain.Unauthenticated())

	assert.Equal(t, handlers.SocketMessage{Type: "navigate", To: "/login"}, readMessage(t, conn))
}

func TestSessionSocket_SignedInOnLoginScreenNavigatesHome(t *testing.T) {
	h := newHarness(t, testutils.Authenticated("u1", "ada@example.com"))
	srv := httptest.NewServer(h.e)
	defer srv.Close()

	conn := dialSession(t, srv, "login")

	assert.Equal(t, handlers.SocketMessage{Type: "navigate", To: "/home"}, readMessage(t, conn))
}

func TestSessionSocket_ReleasesGateOnClose(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())
	srv := httptest.NewServer(h.e)
	defer srv.Close()

	conn := dialSession(t, srv, "login")
	require.Equal(t, 1, h.identity.Observers())

	_ = conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool { return h.identity.Observers() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestSessionSocket_RejectsUnknownScreen(t *testing.T) {
	h := newHarness(t, testutils.Unauthenticated())

	rec := h.get("/ws/session?screen=admin")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_screen")
}
