package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/skillswap/internal/models"
)

// FeedKind selects one of the community feeds.
type FeedKind string

const (
	FeedAll      FeedKind = "all"
	FeedOffers   FeedKind = "offers"
	FeedRequests FeedKind = "requests"
)

// ParseFeedKind converts a flag value into a [FeedKind]. Empty input selects [FeedAll].
func ParseFeedKind(s string) (FeedKind, error) {
	switch k := FeedKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", FeedAll:
		return FeedAll, nil
	case FeedOffers, FeedRequests:
		return k, nil
	default:
		return "", fmt.Errorf("unknown feed %q: expected all, offers or requests", s)
	}
}

// CreatePost submits a new listing. Categories travel as a JSON array string in the form body.
// An empty pinCode is omitted.
func (c *Client) CreatePost(ctx context.Context, description string, categories []models.Category, postType models.PostType, pinCode string) (*models.Post, error) {
	if categories == nil {
		categories = []models.Category{}
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("create post: failed to encode categories: %w", err)
	}

	form := url.Values{}
	form.Set("description", description)
	form.Set("categories", string(encoded))
	form.Set("post_type", string(postType))
	if pinCode != "" {
		form.Set("pin_code", pinCode)
	}

	var post models.Post
	if err := c.postForm(ctx, "create post", "posts/create", form, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// MyPosts lists the session user's own listings.
func (c *Client) MyPosts(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "get my posts", "posts")
}

// UserPosts lists another user's listings.
func (c *Client) UserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	return c.posts(ctx, "get user posts", "foreignposts/"+strconv.FormatInt(userID, 10))
}

func (c *Client) CommunityPosts(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "get community posts", "community")
}

func (c *Client) CommunityOffers(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "get community offers", "community/offers")
}

func (c *Client) CommunityRequests(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "get community requests", "community/requests")
}

// Feed dispatches to the community call matching kind.
func (c *Client) Feed(ctx context.Context, kind FeedKind) ([]models.Post, error) {
	switch kind {
	case FeedAll, "":
		return c.CommunityPosts(ctx)
	case FeedOffers:
		return c.CommunityOffers(ctx)
	case FeedRequests:
		return c.CommunityRequests(ctx)
	default:
		return nil, fmt.Errorf("unknown feed %q", kind)
	}
}

// UpdatePost sends the full post as JSON and returns the stored version.
func (c *Client) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	var updated models.Post
	req := request{op: "update post", method: http.MethodPost, path: "posts/update", json: post}
	if err := c.do(ctx, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost removes a listing. The success body is discarded.
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	req := request{op: "delete post", method: http.MethodDelete, path: "posts/delete/" + strconv.FormatInt(postID, 10)}
	return c.do(ctx, req, nil)
}

func (c *Client) posts(ctx context.Context, op, path string) ([]models.Post, error) {
	var posts []models.Post
	if err := c.get(ctx, op, path, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
