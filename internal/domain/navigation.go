package domain

// Route is one of the application's navigable screens.
type Route string

const (
	RouteLogin Route = "/login"
	RouteHome  Route = "/home"
)

// Navigator moves the user to another screen. HTTP handlers record the target
// and answer with a redirect; the session socket pushes it to the browser.
type Navigator interface {
	Navigate(to Route)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(to Route)

// Navigate calls f(to).
func (f NavigatorFunc) Navigate(to Route) { f(to) }
