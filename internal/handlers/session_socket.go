package handlers

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/frontdoor/internal/domain"
	"github.com/nfrund/frontdoor/internal/gatekeeper"
	"github.com/nfrund/frontdoor/internal/middleware"
)

// SessionSocket keeps an open page in step with its browser's auth state.
// Each connection mounts one gate for the page's screen, sends a ready
// message once the current state is known, and pushes a navigate message
// whenever the gate moves the user.
type SessionSocket struct {
	originPatterns []string
}

// NewSessionSocket creates the socket handler. originPatterns lists the
// hosts allowed to open it besides the serving host.
func NewSessionSocket(originPatterns ...string) *SessionSocket {
	return &SessionSocket{originPatterns: originPatterns}
}

// Serve handles GET /ws/session?screen=login|home.
func (s *SessionSocket) Serve(c echo.Context) error {
	var req SessionSocketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_screen", Message: "screen must be login or home"})
	}
	screen, _ := gatekeeper.ParseScreen(req.Screen)

	provider, err := middleware.IdentityFrom(c)
	if err != nil {
		return err
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		// Accept has already written the error response.
		return nil
	}
	defer conn.CloseNow()

	logger := middleware.FromContext(c.Request().Context())
	// CloseRead discards client frames and cancels ctx once the client goes away.
	ctx := conn.CloseRead(c.Request().Context())

	pushes := make(chan domain.Route, 8)
	nav := domain.NavigatorFunc(func(to domain.Route) {
		select {
		case pushes <- to:
		default:
		}
	})

	gate := gatekeeper.Mount(ctx, screen, provider, nav)
	defer gate.Release()

	// ready tells the page the socket is following its auth state.
	if _, err := gate.First(ctx); err != nil {
		return nil
	}
	if err := wsjson.Write(ctx, conn, SocketMessage{Type: "ready"}); err != nil {
		return nil
	}
	logger.DebugContext(ctx, "Session socket opened", "event", "session_socket_open", "screen", screen)

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(context.WithoutCancel(ctx), "Session socket closed", "event", "session_socket_close", "screen", screen)
			return nil
		case to := <-pushes:
			if err := wsjson.Write(ctx, conn, SocketMessage{Type: "navigate", To: string(to)}); err != nil {
				logger.DebugContext(context.WithoutCancel(ctx), "Session socket write failed", "event", "session_socket_write_failure", "error", err)
				return nil
			}
		}
	}
}
