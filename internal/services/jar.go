package services

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/models"
)

// CookieStore persists the cookie set of a backend host.
type CookieStore interface {
	ListByHost(host string) ([]*models.StoredCookie, error)
	ReplaceHost(host string, cookies []*models.StoredCookie) error
}

// Jar is an [http.CookieJar] that writes through to a [CookieStore].
//
// A nil store keeps cookies in memory only.
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	store  CookieStore
	logger *log.Logger
}

var _ http.CookieJar = (*Jar)(nil)

// NewJar creates a jar backed by store.
func NewJar(store CookieStore, logger *log.Logger) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Jar{inner: inner, store: store, logger: logger}, nil
}

// Load restores the stored cookies for u's host into the jar.
func (j *Jar) Load(u *url.URL) error {
	if j.store == nil {
		return nil
	}

	stored, err := j.store.ListByHost(u.Host)
	if err != nil {
		return fmt.Errorf("failed to load cookies for %s: %w", u.Host, err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(rootURL(u), cookies)
	return nil
}

// SetCookies implements [http.CookieJar]. Persistence failures are logged; the in-memory jar stays authoritative.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if err := j.persist(u); err != nil {
		j.logger.Warn("failed to persist cookies", "host", u.Host, "error", err)
	}
}

// Cookies implements [http.CookieJar].
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Import stores cookies captured elsewhere (e.g. a browser cURL export) for u's host.
func (j *Jar) Import(u *url.URL, cookies []*http.Cookie) error {
	scoped := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		scoped = append(scoped, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(rootURL(u), scoped)
	return j.persist(u)
}

// Clear expires every cookie held for u's host and removes the stored copies.
func (j *Jar) Clear(u *url.URL) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	root := rootURL(u)
	current := j.inner.Cookies(root)
	expired := make([]*http.Cookie, 0, len(current))
	for _, c := range current {
		expired = append(expired, &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1})
	}
	j.inner.SetCookies(root, expired)
	return j.persist(u)
}

// persist snapshots the jar's cookies for u's host. Callers hold j.mu.
func (j *Jar) persist(u *url.URL) error {
	if j.store == nil {
		return nil
	}

	current := j.inner.Cookies(rootURL(u))
	stored := make([]*models.StoredCookie, 0, len(current))
	for _, c := range current {
		stored = append(stored, models.NewStoredCookie(u.Host, c.Name, c.Value))
	}
	return j.store.ReplaceHost(u.Host, stored)
}

func rootURL(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}
