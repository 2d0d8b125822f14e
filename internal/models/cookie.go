package models

import (
	"fmt"
	"time"
)

var _ Model = (*StoredCookie)(nil)

// StoredCookie is a session cookie persisted for a backend host.
type StoredCookie struct {
	id        string
	Host      string
	Name      string
	Value     string
	createdAt time.Time
	updatedAt time.Time
}

// NewStoredCookie creates a cookie record for host with fresh timestamps.
func NewStoredCookie(host, name, value string) *StoredCookie {
	now := time.Now().UTC()
	return &StoredCookie{Host: host, Name: name, Value: value, createdAt: now, updatedAt: now}
}

// RestoreStoredCookie rebuilds a record read from storage.
func RestoreStoredCookie(id, host, name, value string, createdAt, updatedAt time.Time) *StoredCookie {
	return &StoredCookie{id: id, Host: host, Name: name, Value: value, createdAt: createdAt, updatedAt: updatedAt}
}

func (c *StoredCookie) ID() string           { return c.id }
func (c *StoredCookie) SetID(id string)      { c.id = id }
func (c *StoredCookie) CreatedAt() time.Time { return c.createdAt }
func (c *StoredCookie) UpdatedAt() time.Time { return c.updatedAt }
func (c *StoredCookie) Touch(at time.Time)   { c.updatedAt = at }

// Validate checks the required fields.
func (c *StoredCookie) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("cookie host is required")
	}
	if c.Name == "" {
		return fmt.Errorf("cookie name is required")
	}
	return nil
}
