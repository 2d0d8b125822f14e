package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/shared"
)

// CookieRepository persists [models.StoredCookie] rows.
type CookieRepository struct {
	db *sql.DB
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// Upsert inserts the cookie or updates the value of an existing (host, name) row.
func (r *CookieRepository) Upsert(c *models.StoredCookie) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return withTx(r.db, func(tx *sql.Tx) error {
		return upsertCookie(tx, c)
	})
}

// Get retrieves a single cookie by host and name.
func (r *CookieRepository) Get(host, name string) (*models.StoredCookie, error) {
	row := r.db.QueryRow(`
		SELECT id, host, name, value, created_at, updated_at
		FROM cookies
		WHERE host = ? AND name = ?
	`, host, name)

	c, err := scanCookie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cookie %s for %s", ErrNotFound, name, host)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cookie: %w", err)
	}
	return c, nil
}

// ListByHost returns every cookie stored for host, ordered by name.
func (r *CookieRepository) ListByHost(host string) ([]*models.StoredCookie, error) {
	rows, err := r.db.Query(`
		SELECT id, host, name, value, created_at, updated_at
		FROM cookies
		WHERE host = ?
		ORDER BY name
	`, host)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*models.StoredCookie
	for rows.Next() {
		c, err := scanCookie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookies: %w", err)
	}
	return cookies, nil
}

// ReplaceHost atomically replaces the cookie set stored for host.
//
// Cookies of host not present in cookies are deleted; an empty slice clears the host.
func (r *CookieRepository) ReplaceHost(host string, cookies []*models.StoredCookie) error {
	for _, c := range cookies {
		if c.Host != host {
			return fmt.Errorf("%w: cookie %s belongs to %s, not %s", shared.ErrInvalidArgument, c.Name, c.Host, host)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		keep := make(map[string]bool, len(cookies))
		for _, c := range cookies {
			keep[c.Name] = true
			if err := upsertCookie(tx, c); err != nil {
				return err
			}
		}

		rows, err := tx.Query("SELECT name FROM cookies WHERE host = ?", host)
		if err != nil {
			return fmt.Errorf("failed to list stored cookies: %w", err)
		}
		var stale []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan cookie name: %w", err)
			}
			if !keep[name] {
				stale = append(stale, name)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate cookie names: %w", err)
		}

		for _, name := range stale {
			if _, err := tx.Exec("DELETE FROM cookies WHERE host = ? AND name = ?", host, name); err != nil {
				return fmt.Errorf("failed to delete cookie %s: %w", name, err)
			}
		}
		return nil
	})
}

// DeleteHost removes every cookie stored for host.
func (r *CookieRepository) DeleteHost(host string) error {
	if _, err := r.db.Exec("DELETE FROM cookies WHERE host = ?", host); err != nil {
		return fmt.Errorf("failed to delete cookies: %w", err)
	}
	return nil
}

func upsertCookie(tx *sql.Tx, c *models.StoredCookie) error {
	if c.ID() == "" {
		c.SetID(shared.GenerateID())
	}
	now := time.Now().UTC()
	c.Touch(now)

	_, err := tx.Exec(`
		INSERT INTO cookies (id, host, name, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (host, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, c.ID(), c.Host, c.Name, c.Value, c.CreatedAt(), now)
	if err != nil {
		return fmt.Errorf("failed to upsert cookie %s: %w", c.Name, err)
	}
	return nil
}

func scanCookie(row rowScanner) (*models.StoredCookie, error) {
	var (
		id, host, name, value string
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &host, &name, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return models.RestoreStoredCookie(id, host, name, value, createdAt, updatedAt), nil
}
