package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/skillswap/internal/formatter"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/urfave/cli/v3"
)

// parseCategories resolves category flag values against the static taxonomy.
func parseCategories(values []string) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			c, ok := models.ParseCategory(part)
			if !ok {
				return nil, fmt.Errorf("%w: unknown category %q", shared.ErrInvalidArgument, part)
			}
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// PostsList prints a community feed, the session user's posts, or another user's posts.
func (r *Runner) PostsList(ctx context.Context, cmd *cli.Command) error {
	mine := cmd.Bool("mine")
	userID := cmd.Int64("user")
	if mine && userID != 0 {
		return fmt.Errorf("%w: --mine and --user cannot be combined", shared.ErrInvalidArgument)
	}

	kind, err := services.ParseFeedKind(cmd.String("kind"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	client, err := r.session()
	if err != nil {
		return err
	}

	var (
		feed  string
		posts []models.Post
	)
	switch {
	case mine:
		feed = "mine"
		posts, err = client.MyPosts(ctx)
	case userID != 0:
		feed = fmt.Sprintf("user %d", userID)
		posts, err = client.UserPosts(ctx, userID)
	default:
		feed = string(kind)
		posts, err = client.Feed(ctx, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	r.logger.Debug("fetched posts", "feed", feed, "count", len(posts))

	if cmd.Bool("json") {
		return r.writeJSON(posts, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(&models.FeedExport{Feed: feed, ExportedAt: time.Now().UTC(), Posts: posts})
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// PostsCreate publishes a new offer or request.
func (r *Runner) PostsCreate(ctx context.Context, cmd *cli.Command) error {
	categories, err := parseCategories(cmd.StringSlice("category"))
	if err != nil {
		return err
	}
	postType, err := models.ParsePostType(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	post := models.NewPost{
		Description: cmd.String("description"),
		Categories:  categories,
		PostType:    postType,
		PinCode:     cmd.String("pin-code"),
	}
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	client, err := r.session()
	if err != nil {
		return err
	}

	created, err := client.CreatePost(ctx, post.Description, post.Categories, post.PostType, post.PinCode)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	r.logger.Info("post created", "id", created.ID)

	if cmd.Bool("json") {
		return r.writeJSON(created, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created %s #%d: %s\n", created.PostType, created.ID, created.Description)
}

// PostsUpdate edits one of the session user's posts. Only the given flags change.
func (r *Runner) PostsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")

	client, err := r.session()
	if err != nil {
		return err
	}

	posts, err := client.MyPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load your posts: %w", err)
	}

	var post *models.Post
	for i := range posts {
		if posts[i].ID == id {
			post = &posts[i]
			break
		}
	}
	if post == nil {
		return fmt.Errorf("%w: post %d is not one of your posts", shared.ErrInvalidArgument, id)
	}

	if cmd.IsSet("description") {
		post.Description = cmd.String("description")
	}
	if cmd.IsSet("category") {
		if post.Categories, err = parseCategories(cmd.StringSlice("category")); err != nil {
			return err
		}
	}
	if cmd.IsSet("type") {
		if post.PostType, err = models.ParsePostType(cmd.String("type")); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
	}
	if cmd.IsSet("pin-code") {
		pin := cmd.String("pin-code")
		post.PinCode = &pin
	}

	check := models.NewPost{Description: post.Description, Categories: post.Categories, PostType: post.PostType}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	updated, err := client.UpdatePost(ctx, *post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	r.logger.Info("post updated", "id", updated.ID)

	if cmd.Bool("json") {
		return r.writeJSON(updated, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated %s #%d: %s\n", updated.PostType, updated.ID, updated.Description)
}

// PostsDelete removes one of the session user's posts.
func (r *Runner) PostsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")

	client, err := r.session()
	if err != nil {
		return err
	}

	if err := client.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	r.logger.Info("post deleted", "id", id)
	return r.writePlain("✓ Deleted post #%d\n", id)
}
