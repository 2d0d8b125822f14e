package models

import (
	"slices"
	"time"
)

// FeedExport is a snapshot of a feed with the profiles of the users who posted in it.
type FeedExport struct {
	Feed       string                `json:"feed"`
	ExportedAt time.Time             `json:"exported_at"`
	Posts      []Post                `json:"posts"`
	Authors    map[int64]UserProfile `json:"authors"`
}

// FeedMetadata summarizes an export without its posts.
type FeedMetadata struct {
	Feed       string    `json:"feed"`
	ExportedAt time.Time `json:"exported_at"`
	PostCount  int       `json:"post_count"`
	Offers     int       `json:"offers"`
	Requests   int       `json:"requests"`
	Authors    int       `json:"authors"`
	Categories []string  `json:"categories"`
}

// Metadata counts the export's posts by type and collects the categories in use.
func (e *FeedExport) Metadata() FeedMetadata {
	m := FeedMetadata{Feed: e.Feed, ExportedAt: e.ExportedAt, PostCount: len(e.Posts), Authors: len(e.Authors)}

	seen := map[string]bool{}
	for _, p := range e.Posts {
		switch p.PostType {
		case Offer:
			m.Offers++
		case Request:
			m.Requests++
		}
		for _, c := range p.Categories {
			seen[string(c)] = true
		}
	}

	m.Categories = make([]string, 0, len(seen))
	for c := range seen {
		m.Categories = append(m.Categories, c)
	}
	slices.Sort(m.Categories)
	return m
}

// AuthorOf returns the resolved profile of the post's author, if any.
func (e *FeedExport) AuthorOf(p Post) (UserProfile, bool) {
	profile, ok := e.Authors[p.UserID]
	return profile, ok
}

// AuthorIDs returns the distinct poster ids in first-seen order.
func AuthorIDs(posts []Post) []int64 {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
