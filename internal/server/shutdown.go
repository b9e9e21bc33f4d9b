package server

import (
	"context"
	"fmt"
)

// Shutdown stops accepting connections and waits for in-flight requests.
// Open session sockets are hijacked connections and are not waited for.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if err := s.E.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
