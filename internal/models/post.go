package models

import (
	"fmt"
	"strings"
)

// PostType distinguishes listings that offer a skill from listings that request one.
type PostType string

const (
	Offer   PostType = "offer"
	Request PostType = "request"
)

// ParsePostType converts user input into a [PostType].
func ParsePostType(s string) (PostType, error) {
	switch PostType(strings.ToLower(strings.TrimSpace(s))) {
	case Offer:
		return Offer, nil
	case Request:
		return Request, nil
	default:
		return "", fmt.Errorf("invalid post type %q: expected offer or request", s)
	}
}

// Post is a listing as returned by the backend.
type Post struct {
	ID             int64      `json:"id"`
	Description    string     `json:"description"`
	Categories     []Category `json:"categories"`
	UserID         int64      `json:"user_id"`
	PostType       PostType   `json:"post_type"`
	PinCode        *string    `json:"pin_code,omitempty"`
	UserName       *string    `json:"user_name,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
}

// Author returns the poster's display name, falling back to their id.
func (p Post) Author() string {
	if p.UserName != nil && *p.UserName != "" {
		return *p.UserName
	}
	return fmt.Sprintf("user #%d", p.UserID)
}

// NewPost holds the fields submitted when creating a listing.
type NewPost struct {
	Description string
	Categories  []Category
	PostType    PostType
	PinCode     string
}

// Validate checks the listing before it is sent.
func (p NewPost) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if len(p.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	for _, c := range p.Categories {
		if !ValidCategory(c) {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	if _, err := ParsePostType(string(p.PostType)); err != nil {
		return err
	}
	return nil
}

// DeleteResponse is the backend's body for a successful delete.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
