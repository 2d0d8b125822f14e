package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/auth"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
)

// ViewState is the screen currently shown.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	FeedView
	DetailView
	ConfirmView
)

func (v ViewState) String() string {
	switch v {
	case LoadingView:
		return "loading"
	case LoginView:
		return "login"
	case FeedView:
		return "feed"
	case DetailView:
		return "detail"
	case ConfirmView:
		return "confirm"
	default:
		return "unknown"
	}
}

var feedCycle = []services.FeedKind{services.FeedAll, services.FeedOffers, services.FeedRequests}

// Backend is the subset of [services.Client] the TUI talks to.
type Backend interface {
	auth.Client
	auth.LoginClient
	Feed(ctx context.Context, kind services.FeedKind) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	UserProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	DeletePost(ctx context.Context, id int64) error
}

type ModelOpts struct {
	Backend Backend
	Store   *auth.Store
	Logger  *log.Logger
}

// Model is the TUI's root model. Use a pointer; the session channels are shared with store observers.
type Model struct {
	ctx     context.Context
	backend Backend
	logger  *log.Logger

	store        *auth.Store
	synchronizer *auth.Synchronizer
	guard        *auth.Guard
	states       chan auth.State
	routes       chan auth.Route
	unsubscribe  func()
	cancelGuard  func()

	view     ViewState
	state    auth.State
	email    textinput.Model
	password textinput.Model

	feed     services.FeedKind
	mine     bool
	posts    list.Model
	selected *models.Post
	author   *models.UserProfile

	status string
	err    error

	help   help.Model
	keys   keyMap
	width  int
	height int
}

func NewModel(ctx context.Context, opts ModelOpts) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	store := opts.Store
	if store == nil {
		store = auth.NewStore()
	}

	m := &Model{
		ctx:     ctx,
		backend: opts.Backend,
		logger:  logger,
		store:   store,
		states:  make(chan auth.State, 1),
		routes:  make(chan auth.Route, 1),
		view:    LoadingView,
		state:   store.Get(),
		feed:    services.FeedAll,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	nav := auth.NavigatorFunc(func(r auth.Route) { offer(m.routes, r) })
	m.synchronizer = auth.NewSynchronizer(auth.SynchronizerOpts{
		Client:    opts.Backend,
		Store:     store,
		Navigator: nav,
		Logger:    logger,
		Runtime:   auth.ClientRuntime,
	})
	m.guard = auth.NewGuard(store, nav)

	m.email = textinput.New()
	m.email.Placeholder = "you@example.com"
	m.email.Prompt = "Email:    "
	m.email.CharLimit = 254

	m.password = textinput.New()
	m.password.Placeholder = "password"
	m.password.Prompt = "Password: "
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'

	delegate := list.NewDefaultDelegate()
	m.posts = list.New([]list.Item{}, delegate, 0, 0)
	m.posts.Title = feedTitle(m.feed, false)
	m.posts.SetShowHelp(false)
	return m
}

// offer replaces any value still waiting in ch so the reader always sees the latest one.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Init subscribes to the store, arms the guard and starts the session check.
func (m *Model) Init() tea.Cmd {
	m.unsubscribe = m.store.Subscribe(func(st auth.State) { offer(m.states, st) })
	m.cancelGuard = m.guard.RequireAuth()
	return tea.Batch(m.waitForState(), m.waitForRoute(), m.checkSession())
}

// Close releases the store subscription and any pending guard decision.
func (m *Model) Close() {
	if m.cancelGuard != nil {
		m.cancelGuard()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-m.states:
			return stateChangedMsg(st)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForRoute() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.routes:
			return navigateMsg(r)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		m.synchronizer.Init(m.ctx)
		return nil
	}
}

func (m *Model) login(creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.synchronizer.Login(m.ctx, m.backend, creds)
		return loginResultMsg(resp, err)
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.synchronizer.Logout(m.ctx)
		return nil
	}
}

func (m *Model) fetchPosts() tea.Cmd {
	mine, kind := m.mine, m.feed
	title := feedTitle(kind, mine)
	return func() tea.Msg {
		var (
			posts []models.Post
			err   error
		)
		if mine {
			posts, err = m.backend.MyPosts(m.ctx)
		} else {
			posts, err = m.backend.Feed(m.ctx, kind)
		}
		return postsFetchedMsg(title, posts, err)
	}
}

func (m *Model) fetchProfile(id int64) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.backend.UserProfile(m.ctx, id)
		return profileFetchedMsg(profile, err)
	}
}

func (m *Model) deletePost(id int64) tea.Cmd {
	return func() tea.Msg {
		return postDeletedMsg(id, m.backend.DeletePost(m.ctx, id))
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.posts.SetSize(msg.Width, max(msg.Height-4, 0))
		return m, nil
	case Msg:
		return m.handleMsg(msg)
	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.updateLogin(msg)
		case FeedView:
			return m.updateFeed(msg)
		case DetailView:
			return m.updateDetail(msg)
		case ConfirmView:
			return m.updateConfirm(msg)
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateChanged:
		st := msg.data.(auth.State)
		m.state = st
		if !st.Loading && st.IsAuthenticated && (m.view == LoadingView || m.view == LoginView) {
			m.logger.Debug("session resolved", "state", st)
			m.showFeed()
			return m, tea.Batch(m.waitForState(), m.fetchPosts())
		}
		return m, m.waitForState()
	case MsgNavigate:
		route := msg.data.(auth.Route)
		m.logger.Debug("navigate", "route", route)
		switch route {
		case auth.RouteLogin:
			m.showLogin()
			return m, tea.Batch(m.waitForRoute(), textinput.Blink)
		case auth.RouteHome:
			m.showFeed()
			return m, tea.Batch(m.waitForRoute(), m.fetchPosts())
		}
		return m, m.waitForRoute()
	case MsgPostsFetched:
		res := msg.data.(postsFetched)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.posts.Title = res.title
		return m, m.posts.SetItems(postItems(res.posts))
	case MsgProfileFetched:
		res := msg.data.(profileFetched)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.author = res.profile
		return m, nil
	case MsgLoginResult:
		res := msg.data.(loginResult)
		m.password.SetValue("")
		switch {
		case res.err != nil:
			m.err = res.err
		case !res.resp.Success || res.resp.UserID == nil:
			m.err = nil
			m.status = res.resp.Message
			if m.status == "" {
				m.status = "login failed"
			}
		default:
			m.err = nil
			m.status = ""
		}
		return m, nil
	case MsgPostDeleted:
		res := msg.data.(postDeleted)
		if res.err != nil {
			m.err = res.err
			m.view = DetailView
			return m, nil
		}
		m.status = fmt.Sprintf("deleted post #%d", res.id)
		m.showFeed()
		return m, m.fetchPosts()
	}
	return m, nil
}

func (m *Model) showLogin() {
	m.view = LoginView
	m.selected, m.author = nil, nil
	m.email.SetValue("")
	m.password.SetValue("")
	m.password.Blur()
	m.email.Focus()
}

func (m *Model) showFeed() {
	m.view = FeedView
	m.selected, m.author = nil, nil
	m.email.Blur()
	m.password.Blur()
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.toggleFocus()
		return m, textinput.Blink
	case "enter":
		if m.email.Focused() {
			m.toggleFocus()
			return m, textinput.Blink
		}
		creds := models.Credentials{Email: m.email.Value(), Password: m.password.Value()}
		if err := creds.Validate(); err != nil {
			m.err = nil
			m.status = err.Error()
			return m, nil
		}
		m.status = "signing in..."
		return m, m.login(creds)
	}

	var cmd tea.Cmd
	if m.email.Focused() {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.email.Focused() {
		m.email.Blur()
		m.password.Focus()
		return
	}
	m.password.Blur()
	m.email.Focus()
}

func (m *Model) updateFeed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.posts.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.posts, cmd = m.posts.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.feed = nextFeed(m.feed)
		m.mine = false
		m.status = ""
		return m, m.fetchPosts()
	case key.Matches(msg, m.keys.mine):
		m.mine = !m.mine
		m.status = ""
		return m, m.fetchPosts()
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.fetchPosts()
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.enter):
		item, ok := m.posts.SelectedItem().(postItem)
		if !ok {
			return m, nil
		}
		post := item.post
		m.selected, m.author = &post, nil
		m.view = DetailView
		m.status, m.err = "", nil
		return m, m.fetchProfile(post.UserID)
	}

	var cmd tea.Cmd
	m.posts, cmd = m.posts.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.showFeed()
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.delete):
		if m.ownsSelected() {
			m.view = ConfirmView
		} else {
			m.status = "you can only delete your own posts"
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		m.status = "deleting..."
		return m, m.deletePost(m.selected.ID)
	case key.Matches(msg, m.keys.no):
		m.view = DetailView
	}
	return m, nil
}

func (m *Model) ownsSelected() bool {
	return m.selected != nil && m.state.IsAuthenticated && m.selected.UserID == m.state.ID()
}

func nextFeed(kind services.FeedKind) services.FeedKind {
	for i, k := range feedCycle {
		if k == kind {
			return feedCycle[(i+1)%len(feedCycle)]
		}
	}
	return services.FeedAll
}

func feedTitle(kind services.FeedKind, mine bool) string {
	if mine {
		return "My posts"
	}
	switch kind {
	case services.FeedOffers:
		return "Community offers"
	case services.FeedRequests:
		return "Community requests"
	default:
		return "Community"
	}
}
