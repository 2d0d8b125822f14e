package web

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/skillswap/internal/server"
	"github.com/desertthunder/skillswap/internal/shared"
)

func newPages(t *testing.T) *Pages {
	t.Helper()
	p, err := NewPages(PagesOpts{BackendURL: "https://api.example.com/", Logger: shared.NewLogger(io.Discard)})
	if err != nil {
		t.Fatalf("failed to create pages: %v", err)
	}
	return p
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	t.Run("Layout Carries Theme Markers", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Render(&buf, "home", PageData{Title: "Home", Path: "/", Theme: "lemonade", Themes: Themes}); err != nil {
			t.Fatalf("render failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, `<html lang="en" data-theme="">`) {
			t.Error("expected data-theme placeholder")
		}
		if strings.Count(out, "</head>") != 1 {
			t.Error("expected one </head>")
		}
		if !strings.Contains(out, `<option value="lemonade" selected>`) {
			t.Errorf("expected current theme to be selected, got %s", out)
		}
	})

	t.Run("Unknown Page", func(t *testing.T) {
		if err := r.Render(io.Discard, "missing", PageData{}); err == nil {
			t.Error("expected error for unknown page")
		}
	})
}

func TestPages(t *testing.T) {
	p := newPages(t)

	t.Run("Routes", func(t *testing.T) {
		if routes := p.Routes(); len(routes) != 1 || routes[0] != "/" {
			t.Errorf("unexpected routes %v", routes)
		}
	})

	t.Run("Known Pages", func(t *testing.T) {
		for path, want := range map[string]string{
			"/":          "Trade what you know",
			"/login":     `action="https://api.example.com/auth/login"`,
			"/register":  `name="pin_code"`,
			"/community": `data-view="feed"`,
			"/posts":     `data-view="mine"`,
		} {
			rec := httptest.NewRecorder()
			p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), want) {
				t.Errorf("%s: expected %q in body", path, want)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("%s: expected html, got %s", path, ct)
			}
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Behind Theme Middleware", func(t *testing.T) {
		h := server.Theme(server.ThemeOpts{})(p)
		req := httptest.NewRequest(http.MethodGet, "/community", nil)
		req.AddCookie(&http.Cookie{Name: "theme", Value: "dracula"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		body := rec.Body.String()
		if !strings.Contains(body, `<html lang="en" data-theme="dracula">`) {
			t.Errorf("expected themed html element, got %s", body)
		}
		if !strings.Contains(body, `<option value="dracula" selected>`) {
			t.Error("expected picker to reflect cookie theme")
		}
		if !strings.Contains(body, "localStorage.getItem('theme')") {
			t.Error("expected bootstrap script")
		}
	})
}
