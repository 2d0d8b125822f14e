package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/desertthunder/skillswap/internal/formatter"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for feed exports.
type ExportOpts struct {
	Feeds      []string     // Feed names: all, offers, requests, mine (default: all)
	Format     string       // Export format: json, csv, markdown, txt (default: json)
	OutputDir  string       // Base output directory (default: skillswap_export_{epoch})
	NumWorkers int          // Concurrent profile lookups (default: 5, max: 10)
	RateLimit  float64      // Backend requests per second (default: 5)
	Avatars    bool         // Markdown only: download author profile pictures
	Client     *http.Client // Used for avatar downloads
}

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "markdown", "txt"}

func (o *ExportOpts) defaults(now int64) error {
	if len(o.Feeds) == 0 {
		o.Feeds = []string{"all"}
	}
	if o.Format == "" {
		o.Format = "json"
	}
	valid := false
	for _, f := range Formats {
		valid = valid || f == o.Format
	}
	if !valid {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, o.Format)
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("skillswap_export_%d", now)
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 5
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
	return nil
}

// fetchedFeed is a feed with its posts, or the error that prevented fetching it.
type fetchedFeed struct {
	name  string
	posts []models.Post
	err   error
}

// Export fetches the requested feeds, resolves their authors with a rate-limited worker pool
// and writes one export per feed plus a manifest.
//
// It returns an error only when nothing can be written (bad options, output directory, canceled context);
// per-feed and per-author failures are reported in the result.
func (e *ExportEngine) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	started := e.now()
	if err := opts.defaults(started.Unix()); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      started.UTC(),
		Feeds:           make([]FeedExportResult, 0, len(opts.Feeds)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	feeds, err := e.fetchFeeds(ctx, prog, limiter, opts.Feeds)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	for _, f := range feeds {
		posts = append(posts, f.posts...)
	}
	authors, authorErrs := e.resolveAuthors(ctx, prog, limiter, models.AuthorIDs(posts), opts.NumWorkers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.AuthorsResolved = len(authors)
	result.AuthorErrors = authorErrs

	for i, f := range feeds {
		if f.err != nil {
			result.record(FeedExportResult{Feed: f.name, Success: false, Files: []string{}, Error: f.err})
			e.sendProgress(prog, exportFailedUpdate(i+1, len(feeds), f.name, f.err))
			continue
		}

		export := &models.FeedExport{
			Feed:       f.name,
			ExportedAt: result.ExportedAt,
			Posts:      f.posts,
			Authors:    authorsFor(f.posts, authors),
		}
		res := e.writeFeed(ctx, export, opts)
		result.record(res)

		if res.Error != nil {
			e.sendProgress(prog, exportFailedUpdate(i+1, len(feeds), f.name, res.Error))
		} else {
			e.sendProgress(prog, exportCompletedUpdate(i+1, len(feeds), f.name, len(res.Files)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchFeeds loads each feed in order. A failed feed is kept with its error.
func (e *ExportEngine) fetchFeeds(ctx context.Context, prog chan<- ProgressUpdate, limiter *rate.Limiter, names []string) ([]fetchedFeed, error) {
	feeds := make([]fetchedFeed, 0, len(names))
	for i, name := range names {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		e.sendProgress(prog, fetchFeedUpdate(i+1, len(names), name))
		posts, err := e.fetch(ctx, name)
		if err != nil {
			e.logger.Warn("failed to fetch feed", "feed", name, "error", err)
			feeds = append(feeds, fetchedFeed{name: name, err: fmt.Errorf("failed to fetch feed: %w", err)})
			continue
		}
		feeds = append(feeds, fetchedFeed{name: name, posts: posts})
	}
	return feeds, nil
}

type authorResult struct {
	id      int64
	profile *models.UserProfile
	err     error
}

// resolveAuthors looks up each id with a pool of workers sharing limiter.
func (e *ExportEngine) resolveAuthors(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	limiter *rate.Limiter,
	ids []int64,
	numWorkers int,
) (map[int64]models.UserProfile, []AuthorError) {
	profiles := map[int64]models.UserProfile{}
	failures := []AuthorError{}
	if len(ids) == 0 {
		return profiles, failures
	}

	jobs := make(chan int64, len(ids))
	results := make(chan authorResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go e.authorWorker(ctx, &wg, limiter, jobs, results)
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			failures = append(failures, AuthorError{UserID: res.id, Error: res.err.Error()})
			continue
		}
		profiles[res.id] = *res.profile
		e.sendProgress(prog, resolveAuthorUpdate(completed, len(ids), res.profile))
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].UserID < failures[j].UserID })
	return profiles, failures
}

// authorWorker resolves profiles from the jobs channel until it is drained or ctx is done.
func (e *ExportEngine) authorWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan int64,
	results chan<- authorResult,
) {
	defer wg.Done()

	for id := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		profile, err := e.source.UserProfile(ctx, id)
		if err != nil {
			e.logger.Debug("failed to resolve author", "user_id", id, "error", err)
		}
		results <- authorResult{id: id, profile: profile, err: err}
	}
}

// writeFeed writes one feed in the requested format.
func (e *ExportEngine) writeFeed(ctx context.Context, export *models.FeedExport, opts ExportOpts) FeedExportResult {
	result := FeedExportResult{Feed: export.Feed, Posts: len(export.Posts), Files: []string{}}
	base := filepath.Join(opts.OutputDir, export.Feed)

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{res.PostsFile, res.MetadataFile}

	case "markdown":
		res, err := formatter.WriteMarkdownExport(ctx, export, base, formatter.MarkdownOpts{Avatars: opts.Avatars, Client: opts.Client})
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		for _, w := range res.Warnings {
			e.logger.Warn("avatar skipped", "feed", export.Feed, "detail", w)
		}
		result.Files = res.Files

	case "txt":
		path, err := formatter.WriteTextExport(export, base+"_posts.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(export, base+".json", true)
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}

// authorsFor picks the resolved profiles of the posters in posts.
func authorsFor(posts []models.Post, all map[int64]models.UserProfile) map[int64]models.UserProfile {
	out := map[int64]models.UserProfile{}
	for _, p := range posts {
		if profile, ok := all[p.UserID]; ok {
			out[p.UserID] = profile
		}
	}
	return out
}
