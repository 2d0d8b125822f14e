// Package server provides HTTP routing and the per-request middleware of the skill-swap page server.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Chain] applies a list so that the first element is outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method dispatch.
//
// # Request Middleware
//
// [RequestMiddleware] returns the two stages every page request passes through:
//
//  1. [CanonicalHost] answers requests for an alias host with a 301 to the same path and query on the
//     canonical host over https. Nothing downstream runs for those requests.
//  2. [Theme] resolves the theme cookie (default "lemonade"), buffers the downstream response and, for HTML,
//     fills the first data-theme="" placeholder and inserts a small script before the first </head> that restores
//     a locally saved theme in installed app mode. Other content types pass through byte for byte.
//
// [ThemeHandler] serves /theme, which stores the chosen theme in a year-long cookie and redirects back with 303.
//
// # Ambient Middleware
//
// [RequestID] tags requests with a uuid, [Logger] logs them with charmbracelet/log and [Metrics] exports
// Prometheus counters and latency histograms. [NewHandler] assembles the full chain.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
