package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	clientSessionName = "frontdoor-client"
	clientIDKey       = "client_id"

	// ClientIDContextKey is where ClientSession stores the browser's id.
	ClientIDContextKey = "client_id"
)

// ClientSession gives every browser a stable client ID kept in a signed
// session cookie. Tabs of one browser share the ID, and with it their
// auth-state stream. It must run after session.Middleware.
func ClientSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(clientSessionName, c)
			if err != nil {
				return err
			}

			id, _ := sess.Values[clientIDKey].(string)
			if id == "" {
				id = uuid.NewString()
				sess.Values[clientIDKey] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return err
				}
			}

			c.Set(ClientIDContextKey, id)
			return next(c)
		}
	}
}

// ClientID returns the id stored by ClientSession, or "".
func ClientID(c echo.Context) string {
	id, _ := c.Get(ClientIDContextKey).(string)
	return id
}
