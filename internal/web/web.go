// Package web renders the HTML shell of the skill-swap site.
//
// Every page is rendered from the embedded layout, which carries the empty data-theme="" placeholder on <html>
// and a plain </head>. The server's theme middleware fills both in; this package never reads the theme cookie
// itself beyond showing the current choice in the picker.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/server"
)

//go:embed templates/*.html
var templateFS embed.FS

// Themes lists the selectable themes; the first is the default.
var Themes = []string{
	server.DefaultTheme, "light", "dark", "cupcake", "emerald", "corporate", "retro", "forest", "dracula", "night",
}

// PageData is passed to every template.
type PageData struct {
	Title      string
	Path       string
	Theme      string
	Themes     []string
	BackendURL string
	View       string // client view mounted by the app shell
	Register   bool
}

type page struct {
	template string
	title    string
	view     string
	register bool
}

var routes = map[string]page{
	"/":          {template: "home", title: "Home"},
	"/login":     {template: "login", title: "Log in"},
	"/register":  {template: "login", title: "Sign up", register: true},
	"/community": {template: "app", title: "Community", view: "feed"},
	"/posts":     {template: "app", title: "My posts", view: "mine"},
	"/profile":   {template: "app", title: "Profile", view: "profile"},
}

var notFound = page{template: "not_found", title: "Not found"}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout and each page template.
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{"home", "login", "app", "not_found"} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		t, err := base.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Pages serves the site's HTML pages. It implements [server.Handler].
type Pages struct {
	renderer   *Renderer
	backendURL string
	logger     *log.Logger
}

type PagesOpts struct {
	BackendURL string
	Logger     *log.Logger
}

func NewPages(opts PagesOpts) (*Pages, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Pages{renderer: renderer, backendURL: opts.BackendURL, logger: opts.Logger}, nil
}

func (p *Pages) Routes() []string {
	return []string{"/"}
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pg, ok := routes[r.URL.Path]
	status := http.StatusOK
	if !ok {
		pg, status = notFound, http.StatusNotFound
	}

	theme, ok := server.ThemeFromContext(r.Context())
	if !ok {
		theme = server.DefaultTheme
	}

	data := PageData{
		Title:      pg.title,
		Path:       r.URL.Path,
		Theme:      theme,
		Themes:     Themes,
		BackendURL: p.backendURL,
		View:       pg.view,
		Register:   pg.register,
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, pg.template, data); err != nil {
		p.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
