package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the session user's profile, or another user's when --id is given.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	client, err := r.session()
	if err != nil {
		return err
	}

	var profile *models.UserProfile
	if id := cmd.Int64("id"); id != 0 {
		profile, err = client.UserProfile(ctx, id)
	} else {
		profile, err = client.MyProfile(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlainHeader(profile.DisplayName())
	r.writePlain("ID: %d\n", profile.ID)
	r.writePlain("Email: %s\n", profile.Email)
	if profile.PinCode != nil && *profile.PinCode != "" {
		r.writePlain("Pin code: %s\n", *profile.PinCode)
	}
	if profile.ProfilePicture != nil && *profile.ProfilePicture != "" {
		r.writePlain("Picture: %s\n", truncate(*profile.ProfilePicture, 80))
	}
	return nil
}

// ProfileID prints the session user's id.
func (r *Runner) ProfileID(ctx context.Context, cmd *cli.Command) error {
	client, err := r.session()
	if err != nil {
		return err
	}

	id, err := client.MyUserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user id: %w", err)
	}
	return r.writePlain("%d\n", id)
}

// ProfilePicture replaces the session user's profile picture with a URL, data URI, or image file.
func (r *Runner) ProfilePicture(ctx context.Context, cmd *cli.Command) error {
	file := cmd.String("file")
	data := cmd.String("data")

	if file == "" && data == "" {
		return fmt.Errorf("%w: either --file or --data must be provided", shared.ErrMissingArgument)
	}
	if file != "" && data != "" {
		return fmt.Errorf("%w: cannot specify both --file and --data", shared.ErrInvalidArgument)
	}

	picture := data
	if file != "" {
		uri, err := dataURI(file)
		if err != nil {
			return err
		}
		picture = uri
	}

	client, err := r.session()
	if err != nil {
		return err
	}

	resp, err := client.UpdateProfilePicture(ctx, picture)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}
	if msg, ok := resp["message"].(string); ok && msg != "" {
		return r.writePlain("✓ %s\n", msg)
	}
	return r.writePlain("✓ Profile picture updated\n")
}

// dataURI encodes the image at path as a base64 data URI.
func dataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read picture: %w", err)
	}

	mime := http.DetectContentType(raw)
	if len(mime) < 6 || mime[:6] != "image/" {
		return "", fmt.Errorf("%w: %s is not an image (%s)", shared.ErrInvalidInput, path, mime)
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
