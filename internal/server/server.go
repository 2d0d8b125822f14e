package server

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that owns its routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// HandlerOpts configures [NewHandler].
type HandlerOpts struct {
	Hosts   CanonicalHosts
	Theme   ThemeOpts
	Logger  *log.Logger
	Metrics *Metrics // Optional; serves /metrics when set
	Pages   Handler  // Page renderer mounted behind the theme middleware
}

// NewHandler assembles the page server.
//
// The chain runs request ids, logging and metrics first, then [RequestMiddleware], so alias redirects are
// logged and counted while the host check still precedes any response generation.
func NewHandler(opts HandlerOpts) http.Handler {
	router := NewBasicRouter()
	router.Handler(NewThemeHandler())
	if opts.Metrics != nil {
		router.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.Pages != nil {
		router.Handler(opts.Pages)
	}

	chain := []Middleware{RequestID()}
	if opts.Logger != nil {
		chain = append(chain, Logger(opts.Logger))
	}
	if opts.Metrics != nil {
		chain = append(chain, opts.Metrics.Middleware(opts.Hosts))
	}
	chain = append(chain, RequestMiddleware(opts.Hosts, opts.Theme)...)
	return Chain(router, chain...)
}
