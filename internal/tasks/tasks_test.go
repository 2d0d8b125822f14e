package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
	"github.com/desertthunder/skillswap/internal/shared"
	th "github.com/desertthunder/skillswap/internal/testing"
)

func strPtr(s string) *string { return &s }

// mockSource serves fixed feeds and profiles.
type mockSource struct {
	mu        sync.Mutex
	feeds     map[services.FeedKind][]models.Post
	mine      []models.Post
	feedErr   error
	profiles  map[int64]*models.UserProfile
	lookups   map[int64]int
	cancelOn  int64
	cancelCtx context.CancelFunc
}

func (m *mockSource) Feed(ctx context.Context, kind services.FeedKind) ([]models.Post, error) {
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	return m.feeds[kind], nil
}

func (m *mockSource) MyPosts(ctx context.Context) ([]models.Post, error) {
	return m.mine, nil
}

func (m *mockSource) UserProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	m.mu.Lock()
	if m.lookups == nil {
		m.lookups = map[int64]int{}
	}
	m.lookups[id]++
	m.mu.Unlock()

	if m.cancelCtx != nil && id == m.cancelOn {
		m.cancelCtx()
	}
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, &services.RequestFailed{Op: "get user profile", Status: http.StatusNotFound, Message: "user not found"}
}

func newMockSource() *mockSource {
	return &mockSource{
		feeds: map[services.FeedKind][]models.Post{
			services.FeedAll: {
				{ID: 1, Description: "Sourdough lessons", UserID: 7, PostType: models.Offer, Categories: []models.Category{"Cooking"}},
				{ID: 2, Description: "Guitar chords", UserID: 8, PostType: models.Request},
				{ID: 3, Description: "Pottery", UserID: 7, PostType: models.Offer},
			},
			services.FeedOffers: {
				{ID: 1, Description: "Sourdough lessons", UserID: 7, PostType: models.Offer},
			},
		},
		mine: []models.Post{{ID: 9, Description: "Chess", UserID: 42, PostType: models.Offer}},
		profiles: map[int64]*models.UserProfile{
			7:  {ID: 7, Email: "asha@example.com", Name: strPtr("Asha")},
			42: {ID: 42, Email: "me@example.com"},
		},
	}
}

func newEngine(src FeedSource) *ExportEngine {
	return NewExportEngine(src, shared.NewLogger(io.Discard))
}

func TestParseFeeds(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "all", false},
		{"offers", "offers", false},
		{"all, Mine ,offers,all", "all,mine,offers", false},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFeeds(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if strings.Join(got, ",") != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestExportEngine(t *testing.T) {
	t.Run("JSON Export With Manifest", func(t *testing.T) {
		src := newMockSource()
		dir := filepath.Join(t.TempDir(), "out")
		prog := make(chan ProgressUpdate, 100)

		result, err := newEngine(src).Export(context.Background(), prog, ExportOpts{
			Feeds:     []string{"all", "offers", "mine"},
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		close(prog)

		if result.SuccessfulExports != 3 || result.FailedExports != 0 {
			t.Errorf("expected 3 successful exports, got %+v", result)
		}
		if result.AuthorsResolved != 2 {
			t.Errorf("expected 2 resolved authors, got %d", result.AuthorsResolved)
		}
		if len(result.AuthorErrors) != 1 || result.AuthorErrors[0].UserID != 8 {
			t.Errorf("expected author 8 to fail, got %v", result.AuthorErrors)
		}
		for id, n := range src.lookups {
			if n != 1 {
				t.Errorf("author %d looked up %d times", id, n)
			}
		}

		th.AssertFileExists(t, filepath.Join(dir, "all.json"))
		th.AssertFileExists(t, filepath.Join(dir, "mine.json"))
		th.AssertFileExists(t, result.ManifestPath)

		var export models.FeedExport
		if err := json.Unmarshal([]byte(th.MustReadFile(t, filepath.Join(dir, "all.json"))), &export); err != nil {
			t.Fatalf("invalid export JSON: %v", err)
		}
		if len(export.Posts) != 3 || export.Authors[7].Email != "asha@example.com" {
			t.Errorf("unexpected export %+v", export)
		}
		if _, ok := export.Authors[42]; ok {
			t.Error("expected authors to be limited to the feed's posters")
		}

		phases := map[Phase]int{}
		for update := range prog {
			phases[update.Phase]++
		}
		if phases[FetchFeed] != 3 || phases[ResolveAuthors] != 2 || phases[WriteExport] != 3 {
			t.Errorf("unexpected progress counts %v", phases)
		}
	})

	t.Run("Formats", func(t *testing.T) {
		for format, want := range map[string][]string{
			"csv":      {"all_posts.csv", "all_metadata.json"},
			"markdown": {filepath.Join("all", "README.md")},
			"txt":      {"all_posts.txt"},
		} {
			t.Run(format, func(t *testing.T) {
				dir := t.TempDir()
				result, err := newEngine(newMockSource()).Export(context.Background(), nil, ExportOpts{
					Format:    format,
					OutputDir: dir,
					RateLimit: 1000,
				})
				if err != nil {
					t.Fatalf("Export failed: %v", err)
				}
				for _, f := range want {
					th.AssertFileExists(t, filepath.Join(dir, f))
				}
				if len(result.Feeds) != 1 || len(result.Feeds[0].Files) != len(want) {
					t.Errorf("unexpected files %+v", result.Feeds)
				}
			})
		}
	})

	t.Run("Invalid Format", func(t *testing.T) {
		_, err := newEngine(newMockSource()).Export(context.Background(), nil, ExportOpts{Format: "xml", OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Failed Feed Does Not Abort Others", func(t *testing.T) {
		src := newMockSource()
		src.feedErr = shared.ErrNetwork
		dir := t.TempDir()

		result, err := newEngine(src).Export(context.Background(), nil, ExportOpts{
			Feeds:     []string{"all", "mine"},
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if result.FailedExports != 1 || result.SuccessfulExports != 1 {
			t.Errorf("expected one failure and one success, got %+v", result)
		}
		if !errors.Is(result.Feeds[0].Error, shared.ErrNetwork) {
			t.Errorf("expected network error for first feed, got %v", result.Feeds[0].Error)
		}

		manifest := th.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, `"failed_exports": 1`) || !strings.Contains(manifest, "network failure") {
			t.Errorf("manifest missing failure details: %s", manifest)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newEngine(newMockSource()).Export(ctx, nil, ExportOpts{OutputDir: t.TempDir(), RateLimit: 1000})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Canceled While Resolving Authors", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		src := newMockSource()
		src.cancelOn = 7
		src.cancelCtx = cancel

		_, err := newEngine(src).Export(ctx, nil, ExportOpts{OutputDir: t.TempDir(), NumWorkers: 1, RateLimit: 1000})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Unwritable Output Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := newEngine(newMockSource()).Export(context.Background(), nil, ExportOpts{OutputDir: filepath.Join(file, "sub")}); err == nil {
			t.Error("expected error for unwritable output directory")
		}
	})

	t.Run("Against Backend Client", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case r.URL.Path == "/community/requests":
				json.NewEncoder(w).Encode([]models.Post{
					{ID: 1, UserID: 3, PostType: models.Request},
					{ID: 2, UserID: 3, PostType: models.Request},
					{ID: 3, UserID: 4, PostType: models.Request},
				})
			case strings.HasPrefix(r.URL.Path, "/auth/userprofile/"):
				id := strings.TrimPrefix(r.URL.Path, "/auth/userprofile/")
				json.NewEncoder(w).Encode(map[string]any{"id": json.Number(id), "email": id + "@example.com"})
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		counter := th.NewCountingRoundTripper(http.DefaultTransport)
		client := services.NewClient(server.URL, &http.Client{Transport: counter})

		result, err := newEngine(client).Export(context.Background(), nil, ExportOpts{
			Feeds:     []string{"requests"},
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if result.AuthorsResolved != 2 {
			t.Errorf("expected 2 authors, got %d", result.AuthorsResolved)
		}
		if counter.Count() != 3 {
			t.Errorf("expected 1 feed request and 2 profile requests, got %d", counter.Count())
		}
	})
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{FetchFeed: "fetch_feed", ResolveAuthors: "resolve_authors", WriteExport: "write_export", Phase(99): ""} {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
