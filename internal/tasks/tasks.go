package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
)

// FeedMine names the session user's own posts.
const FeedMine = "mine"

// FeedSource is the part of the backend API the export engine reads from.
type FeedSource interface {
	Feed(ctx context.Context, kind services.FeedKind) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	UserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// ExportEngine exports feeds from a [FeedSource].
type ExportEngine struct {
	source FeedSource
	logger *log.Logger
	now    func() time.Time
}

// NewExportEngine creates an engine reading from source.
func NewExportEngine(source FeedSource, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &ExportEngine{source: source, logger: logger, now: time.Now}
}

// ParseFeeds validates a comma separated feed list. Empty input selects "all".
func ParseFeeds(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{string(services.FeedAll)}, nil
	}

	seen := map[string]bool{}
	feeds := []string{}
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != FeedMine {
			kind, err := services.ParseFeedKind(name)
			if err != nil {
				return nil, err
			}
			name = string(kind)
		}
		if !seen[name] {
			seen[name] = true
			feeds = append(feeds, name)
		}
	}
	return feeds, nil
}

// fetch loads one named feed.
func (e *ExportEngine) fetch(ctx context.Context, feed string) ([]models.Post, error) {
	if feed == FeedMine {
		return e.source.MyPosts(ctx)
	}
	kind, err := services.ParseFeedKind(feed)
	if err != nil {
		return nil, err
	}
	return e.source.Feed(ctx, kind)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// AuthorError records a profile lookup that failed.
type AuthorError struct {
	UserID int64  `json:"user_id"`
	Error  string `json:"error"`
}

// FeedExportResult is the outcome for a single feed.
type FeedExportResult struct {
	Feed    string   `json:"feed"`
	Posts   int      `json:"posts"`
	Files   []string `json:"files"`
	Success bool     `json:"success"`
	Error   error    `json:"-"`
	Message string   `json:"error,omitempty"`
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Format            string             `json:"format"`
	OutputDirectory   string             `json:"output_directory"`
	ExportedAt        time.Time          `json:"exported_at"`
	Feeds             []FeedExportResult `json:"feeds"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	AuthorsResolved   int                `json:"authors_resolved"`
	AuthorErrors      []AuthorError      `json:"author_errors,omitempty"`
	ManifestPath      string             `json:"-"`
}

func (r *ExportResult) record(res FeedExportResult) {
	if res.Error != nil {
		res.Message = res.Error.Error()
		r.FailedExports++
	} else {
		r.SuccessfulExports++
	}
	r.Feeds = append(r.Feeds, res)
}

