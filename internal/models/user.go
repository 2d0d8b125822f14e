package models

import (
	"fmt"
	"strings"
)

// UserProfile is the public profile of a user.
type UserProfile struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Name           *string `json:"name,omitempty"`
	PinCode        *string `json:"pin_code,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// DisplayName returns the profile name, or the email when no name is set.
func (p UserProfile) DisplayName() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return *p.Name
	}
	return p.Email
}

// NewUser is the registration payload. Empty optional fields are omitted from the request.
type NewUser struct {
	Email          string
	Password       string
	Name           string
	PinCode        string
	ProfilePicture string
}

// Validate applies the same checks the backend performs on registration.
func (u NewUser) Validate() error {
	if err := (Credentials{Email: u.Email, Password: u.Password}).Validate(); err != nil {
		return err
	}
	if u.Name != "" && strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// Credentials is the login envelope. It is never persisted or logged.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks the credential format.
func (c Credentials) Validate() error {
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return fmt.Errorf("invalid email format")
	}
	if len(c.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}

// String hides the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Email: %s, Password: [redacted]}", c.Email)
}

// AuthResponse is the result shape shared by login, register, logout and session checks.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  *int64 `json:"user_id,omitempty"`
}
