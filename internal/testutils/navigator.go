package testutils

import (
	"sync"

	"github.com/nfrund/frontdoor/internal/domain"
)

// RecordingNavigator remembers every route it was asked to navigate to.
type RecordingNavigator struct {
	mu     sync.Mutex
	routes []domain.Route
}

// Navigate implements domain.Navigator.
func (n *RecordingNavigator) Navigate(to domain.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, to)
}

// Routes returns the navigation history.
func (n *RecordingNavigator) Routes() []domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Route(nil), n.routes...)
}

// Last returns the most recent route, or "" if none.
func (n *RecordingNavigator) Last() domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}
