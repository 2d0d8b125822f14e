package server

import (
	"bytes"
	"context"
	"html"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultTheme    = "lemonade"
	ThemeCookieName = "theme"
	themeMaxAge     = 60 * 60 * 24 * 365

	themePlaceholder = `data-theme=""`
	headClose        = "</head>"
)

// themeBootstrap restores a locally saved theme in installed (standalone) app mode when the server did not set one.
const themeBootstrap = `<script>
	(function () {
		var standalone = window.matchMedia('(display-mode: standalone)').matches || navigator.standalone;
		if (standalone && !document.documentElement.getAttribute('data-theme')) {
			var saved = localStorage.getItem('theme');
			if (saved) {
				document.documentElement.setAttribute('data-theme', saved);
			}
		}
	})();
</script>`

// ThemeOpts configures [Theme].
type ThemeOpts struct {
	Default string // Theme used when the cookie is missing or empty
}

func (o ThemeOpts) fallback() string {
	if o.Default == "" {
		return DefaultTheme
	}
	return o.Default
}

type themeKey struct{}

// ThemeFromContext returns the theme resolved by [Theme] for this request.
func ThemeFromContext(ctx context.Context) (string, bool) {
	theme, ok := ctx.Value(themeKey{}).(string)
	return theme, ok
}

// ResolveTheme reads the theme cookie, falling back to the configured default.
func (o ThemeOpts) ResolveTheme(r *http.Request) string {
	if c, err := r.Cookie(ThemeCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return o.fallback()
}

// ApplyTheme fills the first data-theme placeholder and inserts the bootstrap script before the first </head>.
// A missing marker leaves that part of the document unchanged.
func ApplyTheme(doc []byte, theme string) []byte {
	doc = bytes.Replace(doc, []byte(themePlaceholder), []byte(`data-theme="`+html.EscapeString(theme)+`"`), 1)
	return bytes.Replace(doc, []byte(headClose), []byte(themeBootstrap+headClose), 1)
}

// Theme rewrites HTML responses with the user's theme. Non-HTML responses pass through unchanged.
//
// The resolved theme is stored in the request context; a nested Theme sees it and does not rewrite again.
func Theme(opts ThemeOpts) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ThemeFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			theme := opts.ResolveTheme(r)
			r = r.WithContext(context.WithValue(r.Context(), themeKey{}, theme))

			tw := &themeWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(tw, r)
			tw.flush(theme)
		})
	}
}

// themeWriter buffers the body so HTML can be rewritten before it is sent.
type themeWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (tw *themeWriter) WriteHeader(code int) {
	if tw.wroteHeader {
		return
	}
	tw.status = code
	tw.wroteHeader = true
}

func (tw *themeWriter) Write(p []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.buf.Write(p)
}

func (tw *themeWriter) flush(theme string) {
	body := tw.buf.Bytes()
	header := tw.ResponseWriter.Header()

	if isHTML(header, body) {
		body = ApplyTheme(body, theme)
		if header.Get("Content-Length") != "" {
			header.Set("Content-Length", strconv.Itoa(len(body)))
		}
	}

	tw.ResponseWriter.WriteHeader(tw.status)
	if len(body) > 0 {
		tw.ResponseWriter.Write(body)
	}
}

// isHTML reports whether the response is an HTML document, sniffing when no content type was set.
func isHTML(header http.Header, body []byte) bool {
	ct := header.Get("Content-Type")
	if ct == "" && len(body) > 0 {
		ct = http.DetectContentType(body)
		header.Set("Content-Type", ct)
	}
	return strings.HasPrefix(ct, "text/html")
}

// ThemeCookie builds the persistent theme cookie.
func ThemeCookie(theme string) *http.Cookie {
	return &http.Cookie{
		Name:     ThemeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   themeMaxAge,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
}

// ThemeHandler stores the chosen theme in a cookie and redirects back.
//
// It reads "theme" and "redirectTo" from the query or form. redirectTo must be a local path.
type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

func (h *ThemeHandler) Routes() []string {
	return []string{"/theme"}
}

func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if theme := r.FormValue("theme"); theme != "" {
		http.SetCookie(w, ThemeCookie(theme))
	}
	http.Redirect(w, r, localRedirect(r.FormValue("redirectTo")), http.StatusSeeOther)
}

// localRedirect accepts only same-origin absolute paths.
func localRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return "/"
	}
	return target
}
