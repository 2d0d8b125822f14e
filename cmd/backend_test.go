package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "secret123"
	testSession  = "abc123"
	testUserID   = 42
)

// fakeBackend is an in-process skill-swap API keyed on a single session cookie.
type fakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	logouts int
	deleted []string
	updated *models.Post
	form    map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{form: map[string]string{}}

	pin := "175005"
	name := "Ana"
	posts := []models.Post{
		{ID: 5, Description: "Guitar lessons", Categories: []models.Category{"Tutoring"}, UserID: testUserID, PostType: models.Offer, UserName: &name},
		{ID: 6, Description: "Logo for my band", Categories: []models.Category{"Logo Design"}, UserID: 7, PostType: models.Request, PinCode: &pin},
	}
	profiles := map[string]models.UserProfile{
		"42": {ID: testUserID, Email: testEmail, Name: &name, PinCode: &pin},
		"7":  {ID: 7, Email: "raj@example.com"},
	}

	authed := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == testSession
	}
	requireAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !authed(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authenticated"})
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("email") != testEmail || r.FormValue("password") != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: testSession, Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful", "user_id": testUserID})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r, "email", "name", "pin_code")
		if r.FormValue("email") == testEmail {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Email already registered"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registered", "user_id": 43})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.logouts++
		fb.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
	})
	mux.HandleFunc("GET /auth/check", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Not logged in"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user_id": testUserID})
	})
	mux.HandleFunc("GET /auth/myprofile", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profiles["42"])
	}))
	mux.HandleFunc("GET /auth/my_userid", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUserID)
	}))
	mux.HandleFunc("GET /auth/userprofile/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("POST /auth/myprofile/picture", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		fb.record(r, "profile_picture")
		writeJSON(w, http.StatusOK, map[string]any{"message": "Profile picture updated"})
	}))
	mux.HandleFunc("GET /community", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, posts)
	})
	mux.HandleFunc("GET /community/offers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, posts[:1])
	})
	mux.HandleFunc("GET /posts", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, posts[:1])
	}))
	mux.HandleFunc("GET /foreignposts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, posts[1:])
	})
	mux.HandleFunc("POST /posts/create", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		fb.record(r, "description", "categories", "post_type", "pin_code")
		if r.FormValue("description") == "reject me" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "invalid category"})
			return
		}
		var categories []models.Category
		json.Unmarshal([]byte(r.FormValue("categories")), &categories)
		writeJSON(w, http.StatusOK, models.Post{
			ID:          9,
			Description: r.FormValue("description"),
			Categories:  categories,
			UserID:      testUserID,
			PostType:    models.PostType(r.FormValue("post_type")),
		})
	}))
	mux.HandleFunc("POST /posts/update", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		var p models.Post
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
			return
		}
		fb.mu.Lock()
		fb.updated = &p
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("DELETE /posts/delete/{id}", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.deleted = append(fb.deleted, r.PathValue("id"))
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Post deleted"})
	}))

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) record(r *http.Request, keys ...string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, k := range keys {
		fb.form[k] = r.FormValue(k)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// testConfig points the backend at srv and the cookie database at dir.
func testConfig(srv *httptest.Server, dir string) *shared.Config {
	config := shared.DefaultConfig()
	config.Backend.BaseURL = srv.URL + "/"
	config.Database.Path = filepath.Join(dir, "skillswap.db")
	return config
}

// newTestRunner builds a runner whose output lands in the returned buffer.
func newTestRunner(t *testing.T, config *shared.Config) (*Runner, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	r := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: out,
	})
	t.Cleanup(func() { r.Close() })
	return r, out
}

// runCommand runs args against a fresh command tree bound to r.
func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:      "skillswap",
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(t.Context(), append([]string{"skillswap"}, args...))
}

// syncBuffer is a [bytes.Buffer] safe for the export progress goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = nil
}
