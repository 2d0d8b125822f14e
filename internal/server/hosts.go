package server

import (
	"net/http"
	"slices"
)

// CanonicalHosts names the host the site is served from and the aliases that redirect to it.
type CanonicalHosts struct {
	Canonical string
	Aliases   []string
}

// DefaultCanonicalHosts returns the production host configuration.
func DefaultCanonicalHosts() CanonicalHosts {
	return CanonicalHosts{
		Canonical: "skillswap.taneshq.iitmandi.in.net",
		Aliases: []string{
			"www.skillswap.taneshq.me",
			"skillswap.taneshq.me",
			"www.skillswap.taneshq.iitmandi.in.net",
		},
	}
}

// IsAlias reports whether host is an exact member of the alias set.
func (h CanonicalHosts) IsAlias(host string) bool {
	return host != "" && slices.Contains(h.Aliases, host)
}

// RedirectURL builds the canonical https URL for r, keeping its path and query.
func (h CanonicalHosts) RedirectURL(r *http.Request) string {
	target := "https://" + h.Canonical + r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

// CanonicalHost permanently redirects requests for an alias host to the canonical host.
// Any other host, including an empty one, passes through.
func CanonicalHost(hosts CanonicalHosts) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hosts.IsAlias(r.Host) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Location", hosts.RedirectURL(r))
			w.WriteHeader(http.StatusMovedPermanently)
		})
	}
}
