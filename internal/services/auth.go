package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/desertthunder/skillswap/internal/models"
)

// Login exchanges credentials for a session. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	form := url.Values{}
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)
	return c.authCall(ctx, "login", "auth/login", form)
}

// Register creates an account. Empty optional fields are left out of the form.
func (c *Client) Register(ctx context.Context, user models.NewUser) (*models.AuthResponse, error) {
	form := url.Values{}
	form.Set("email", user.Email)
	form.Set("password", user.Password)
	if user.Name != "" {
		form.Set("name", user.Name)
	}
	if user.PinCode != "" {
		form.Set("pin_code", user.PinCode)
	}
	if user.ProfilePicture != "" {
		form.Set("profile_picture", user.ProfilePicture)
	}
	return c.authCall(ctx, "register", "auth/register", form)
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) (*models.AuthResponse, error) {
	return c.authCall(ctx, "logout", "auth/logout", url.Values{})
}

// CheckAuth asks the backend whether the ambient session is valid.
func (c *Client) CheckAuth(ctx context.Context) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.get(ctx, "check auth", "auth/check", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MyProfile(ctx context.Context) (*models.UserProfile, error) {
	return c.profile(ctx, "get my profile", "auth/myprofile")
}

// MyUserID returns the session user's id.
func (c *Client) MyUserID(ctx context.Context) (int64, error) {
	var id int64
	if err := c.get(ctx, "get my user id", "auth/my_userid", &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) UserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return c.profile(ctx, "get user profile", "auth/userprofile/"+strconv.FormatInt(userID, 10))
}

// UpdateProfilePicture replaces the session user's picture. The backend's reply has no fixed shape.
func (c *Client) UpdateProfilePicture(ctx context.Context, picture string) (map[string]any, error) {
	form := url.Values{}
	form.Set("profile_picture", picture)

	var result map[string]any
	if err := c.postForm(ctx, "update profile picture", "auth/myprofile/picture", form, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

func (c *Client) authCall(ctx context.Context, op, path string, form url.Values) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.postForm(ctx, op, path, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) profile(ctx context.Context, op, path string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.get(ctx, op, path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
