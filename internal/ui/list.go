package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/skillswap/internal/models"
)

var (
	_ list.Item = postItem{}
)

// postItem wraps [models.Post] to implement [list.Item].
type postItem struct {
	post models.Post
}

func (i postItem) FilterValue() string {
	return i.post.Description + " " + categoryList(i.post.Categories)
}

func (i postItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.post.PostType, i.post.Description)
}

func (i postItem) Description() string {
	desc := i.post.Author()
	if cats := categoryList(i.post.Categories); cats != "" {
		desc = fmt.Sprintf("%s • %s", desc, cats)
	}
	return desc
}

func postItems(posts []models.Post) []list.Item {
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = postItem{post: p}
	}
	return items
}

func categoryList(categories []models.Category) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
