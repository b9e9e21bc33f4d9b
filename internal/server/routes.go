package server

import (
	"github.com/nfrund/frontdoor/internal/handlers"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	authHandler := handlers.NewAuthHandler(s.deps.Forms, s.deps.Store, s.renderer)
	homeHandler := handlers.NewHomeHandler(s.deps.Store, s.renderer)
	sessionSocket := handlers.NewSessionSocket()

	s.E.GET("/", handlers.RootGet)

	s.E.GET("/login", authHandler.LoginGet)
	s.E.POST("/login", authHandler.LoginPost)
	s.E.POST("/login/mode", authHandler.ModePost)

	s.E.GET("/home", homeHandler.HomeGet)
	s.E.GET("/home/greeting", homeHandler.GreetingGet)
	s.E.POST("/logout", homeHandler.LogoutPost)

	s.E.GET("/ws/session", sessionSocket.Serve)

	s.E.GET("/health", handlers.Health(s.deps.Health))
}
