package auth

// Route is a client-side destination.
type Route string

const (
	RouteLogin Route = "/login"
	RouteHome  Route = "/"
)

// Navigator moves the client to a route.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }
