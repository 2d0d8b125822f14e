package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skillswap/internal/auth"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
	"github.com/desertthunder/skillswap/internal/shared"
)

type fakeBackend struct {
	mu sync.Mutex

	checkResp *models.AuthResponse
	checkErr  error
	loginResp *models.AuthResponse
	loginErr  error
	posts     map[services.FeedKind][]models.Post
	mine      []models.Post
	profiles  map[int64]*models.UserProfile
	deleteErr error

	logouts int
	deleted []int64
	feeds   []services.FeedKind
}

func (f *fakeBackend) CheckAuth(ctx context.Context) (*models.AuthResponse, error) {
	return f.checkResp, f.checkErr
}

func (f *fakeBackend) Logout(ctx context.Context) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return &models.AuthResponse{Success: true}, nil
}

func (f *fakeBackend) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Feed(ctx context.Context, kind services.FeedKind) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds = append(f.feeds, kind)
	return f.posts[kind], nil
}

func (f *fakeBackend) MyPosts(ctx context.Context) ([]models.Post, error) {
	return f.mine, nil
}

func (f *fakeBackend) UserProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, &services.RequestFailed{Op: "user profile", Status: 404, Message: "User not found"}
}

func (f *fakeBackend) DeletePost(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func ptr[T any](v T) *T { return &v }

func samplePosts() []models.Post {
	return []models.Post{
		{ID: 1, Description: "Guitar lessons", Categories: []models.Category{"Music"}, UserID: 7, PostType: models.Offer},
		{ID: 2, Description: "Need help with Go", Categories: []models.Category{"Programming"}, UserID: 9, PostType: models.Request},
	}
}

func newTestModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(ctx, ModelOpts{Backend: backend, Logger: shared.NewLogger(io.Discard)})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	t.Cleanup(func() {
		m.Close()
		cancel()
	})
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	_, next := m.Update(msg)
	return next
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// authenticate drives the model through a successful startup check and returns it on the feed view.
func authenticate(t *testing.T, backend *fakeBackend, userID int64) *Model {
	t.Helper()
	backend.checkResp = &models.AuthResponse{Success: true, UserID: ptr(userID)}
	m := newTestModel(t, backend)
	m.Init()
	m.checkSession()()
	run(t, m, m.waitForState())
	if m.view != FeedView {
		t.Fatalf("expected feed view, got %v", m.view)
	}
	run(t, m, m.fetchPosts())
	return m
}

func TestModel(t *testing.T) {
	t.Run("starts on the loading view", func(t *testing.T) {
		m := newTestModel(t, &fakeBackend{})
		if m.view != LoadingView {
			t.Errorf("expected loading view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Checking your session") {
			t.Errorf("unexpected view: %q", m.View())
		}
	})

	t.Run("relays the latest store state", func(t *testing.T) {
		m := newTestModel(t, &fakeBackend{})
		m.Init()
		m.store.Set(auth.Unauthenticated())
		m.store.Set(auth.Authenticated(3))

		msg := m.waitForState()().(Msg)
		if msg.kind != MsgStateChanged {
			t.Fatalf("expected state message, got %v", msg.kind)
		}
		if st := msg.data.(auth.State); !st.IsAuthenticated || st.ID() != 3 {
			t.Errorf("expected latest state, got %v", st)
		}
	})

	t.Run("guard sends an unauthenticated session to login", func(t *testing.T) {
		backend := &fakeBackend{checkErr: errors.New("connection refused")}
		m := newTestModel(t, backend)
		m.Init()
		m.checkSession()()

		msg := m.waitForRoute()().(Msg)
		if route := msg.data.(auth.Route); route != auth.RouteLogin {
			t.Fatalf("expected login route, got %q", route)
		}
		m.Update(msg)
		if m.view != LoginView {
			t.Errorf("expected login view, got %v", m.view)
		}
		if !m.email.Focused() {
			t.Error("expected email input to be focused")
		}
	})

	t.Run("authenticated session opens the community feed", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()}}
		m := authenticate(t, backend, 7)

		if got := len(m.posts.Items()); got != 2 {
			t.Errorf("expected 2 posts, got %d", got)
		}
		if m.posts.Title != "Community" {
			t.Errorf("unexpected title %q", m.posts.Title)
		}
		if !strings.Contains(m.View(), "Guitar lessons") {
			t.Error("expected post in view")
		}
	})

	t.Run("tab cycles feeds", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{
			services.FeedAll:    samplePosts(),
			services.FeedOffers: samplePosts()[:1],
		}}
		m := authenticate(t, backend, 7)

		_, cmd := m.Update(keyPress("tab"))
		run(t, m, cmd)

		if m.feed != services.FeedOffers {
			t.Errorf("expected offers feed, got %q", m.feed)
		}
		if got := len(m.posts.Items()); got != 1 {
			t.Errorf("expected 1 post, got %d", got)
		}
		if m.posts.Title != "Community offers" {
			t.Errorf("unexpected title %q", m.posts.Title)
		}
	})

	t.Run("m toggles my posts", func(t *testing.T) {
		backend := &fakeBackend{mine: samplePosts()[:1]}
		m := authenticate(t, backend, 7)

		_, cmd := m.Update(keyPress("m"))
		run(t, m, cmd)

		if m.posts.Title != "My posts" {
			t.Errorf("unexpected title %q", m.posts.Title)
		}
		if got := len(m.posts.Items()); got != 1 {
			t.Errorf("expected 1 post, got %d", got)
		}
	})
}

func TestLogin(t *testing.T) {
	loginView := func(t *testing.T, backend *fakeBackend) *Model {
		t.Helper()
		backend.checkResp = &models.AuthResponse{Success: false}
		m := newTestModel(t, backend)
		m.Init()
		m.checkSession()()
		run(t, m, m.waitForState())
		run(t, m, m.waitForRoute())
		if m.view != LoginView {
			t.Fatalf("expected login view, got %v", m.view)
		}
		return m
	}

	t.Run("rejects malformed credentials locally", func(t *testing.T) {
		m := loginView(t, &fakeBackend{})
		m.email.SetValue("not-an-email")
		m.toggleFocus()
		m.password.SetValue("secret123")

		_, cmd := m.Update(keyPress("enter"))
		if cmd != nil {
			t.Error("expected no login request")
		}
		if m.status != "invalid email format" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("enter on email moves to password", func(t *testing.T) {
		m := loginView(t, &fakeBackend{})
		m.Update(keyPress("enter"))
		if !m.password.Focused() || m.email.Focused() {
			t.Error("expected password to be focused")
		}
	})

	t.Run("successful login opens the feed", func(t *testing.T) {
		backend := &fakeBackend{
			loginResp: &models.AuthResponse{Success: true, Message: "Login successful", UserID: ptr(int64(12))},
			posts:     map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()},
		}
		m := loginView(t, backend)
		m.email.SetValue("a@b.com")
		m.toggleFocus()
		m.password.SetValue("secret123")

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)
		run(t, m, m.waitForState())

		if m.view != FeedView {
			t.Fatalf("expected feed view, got %v", m.view)
		}
		if st := m.store.Get(); !st.IsAuthenticated || st.ID() != 12 {
			t.Errorf("unexpected store state %v", st)
		}
		if m.password.Value() != "" {
			t.Error("expected password to be cleared")
		}
	})

	t.Run("rejected login shows the backend message", func(t *testing.T) {
		backend := &fakeBackend{loginResp: &models.AuthResponse{Success: false, Message: "Invalid credentials"}}
		m := loginView(t, backend)
		m.email.SetValue("a@b.com")
		m.toggleFocus()
		m.password.SetValue("secret123")

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		if m.view != LoginView {
			t.Errorf("expected login view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Invalid credentials") {
			t.Errorf("expected message in view: %q", m.View())
		}
	})

	t.Run("request failure shows its message", func(t *testing.T) {
		backend := &fakeBackend{loginErr: &services.RequestFailed{Op: "login", Status: 401, Message: "Invalid email or password"}}
		m := loginView(t, backend)
		m.email.SetValue("a@b.com")
		m.toggleFocus()
		m.password.SetValue("secret123")

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		if !strings.Contains(m.View(), "Error: Invalid email or password") {
			t.Errorf("expected error in view: %q", m.View())
		}
	})

	t.Run("q types into the form", func(t *testing.T) {
		m := loginView(t, &fakeBackend{})
		m.Update(keyPress("q"))
		if m.view != LoginView {
			t.Fatalf("expected login view, got %v", m.view)
		}
		if m.email.Value() != "q" {
			t.Errorf("expected q in email input, got %q", m.email.Value())
		}
	})
}

func TestLogout(t *testing.T) {
	backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()}}
	m := authenticate(t, backend, 7)

	_, cmd := m.Update(keyPress("L"))
	run(t, m, cmd)
	run(t, m, m.waitForRoute())

	if m.view != LoginView {
		t.Errorf("expected login view, got %v", m.view)
	}
	if backend.logouts != 1 {
		t.Errorf("expected 1 logout request, got %d", backend.logouts)
	}
	if st := m.store.Get(); st.IsAuthenticated || st.Loading {
		t.Errorf("expected unauthenticated state, got %v", st)
	}
}

func TestDetail(t *testing.T) {
	profiles := map[int64]*models.UserProfile{
		7: {ID: 7, Email: "ana@example.com", Name: ptr("Ana")},
	}

	t.Run("shows the author profile", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()}, profiles: profiles}
		m := authenticate(t, backend, 7)

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		if m.view != DetailView {
			t.Fatalf("expected detail view, got %v", m.view)
		}
		view := m.View()
		for _, want := range []string{"Post #1", "Guitar lessons", "Ana <ana@example.com>"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view", want)
			}
		}

		m.Update(keyPress("esc"))
		if m.view != FeedView {
			t.Errorf("expected feed view, got %v", m.view)
		}
	})

	t.Run("missing author shows the error", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()[1:]}}
		m := authenticate(t, backend, 7)

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		if !strings.Contains(m.View(), "User not found") {
			t.Errorf("expected error in view: %q", m.View())
		}
	})

	t.Run("deletes an owned post after confirmation", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()}, profiles: profiles}
		m := authenticate(t, backend, 7)
		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		m.Update(keyPress("d"))
		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %v", m.view)
		}
		m.Update(keyPress("n"))
		if m.view != DetailView {
			t.Fatalf("expected detail view, got %v", m.view)
		}

		m.Update(keyPress("d"))
		_, cmd = m.Update(keyPress("y"))
		run(t, m, cmd)

		if len(backend.deleted) != 1 || backend.deleted[0] != 1 {
			t.Errorf("unexpected deletes %v", backend.deleted)
		}
		if m.view != FeedView {
			t.Errorf("expected feed view, got %v", m.view)
		}
		if m.status != "deleted post #1" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("refuses to delete someone else's post", func(t *testing.T) {
		backend := &fakeBackend{posts: map[services.FeedKind][]models.Post{services.FeedAll: samplePosts()}, profiles: profiles}
		m := authenticate(t, backend, 99)
		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		m.Update(keyPress("d"))
		if m.view != DetailView {
			t.Errorf("expected detail view, got %v", m.view)
		}
		if len(backend.deleted) != 0 {
			t.Errorf("unexpected deletes %v", backend.deleted)
		}
	})
}

func TestNextFeed(t *testing.T) {
	tests := []struct {
		in   services.FeedKind
		want services.FeedKind
	}{
		{services.FeedAll, services.FeedOffers},
		{services.FeedOffers, services.FeedRequests},
		{services.FeedRequests, services.FeedAll},
		{"bogus", services.FeedAll},
	}
	for _, tt := range tests {
		if got := nextFeed(tt.in); got != tt.want {
			t.Errorf("nextFeed(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostItem(t *testing.T) {
	item := postItem{post: models.Post{
		ID: 1, Description: "Guitar lessons", UserID: 7, PostType: models.Offer,
		Categories: []models.Category{"Music", "Arts"}, UserName: ptr("Ana"),
	}}
	if got := item.Title(); got != "[offer] Guitar lessons" {
		t.Errorf("unexpected title %q", got)
	}
	if got := item.Description(); got != "Ana • Music, Arts" {
		t.Errorf("unexpected description %q", got)
	}
	if got := item.FilterValue(); !strings.Contains(got, "Music") {
		t.Errorf("unexpected filter value %q", got)
	}
}
