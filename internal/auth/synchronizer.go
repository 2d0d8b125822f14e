package auth

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/models"
)

// Runtime tells the synchronizer where it runs. Only a client runtime has a session to check.
type Runtime int

const (
	ClientRuntime Runtime = iota
	ServerRuntime
)

func (r Runtime) String() string {
	if r == ServerRuntime {
		return "server"
	}
	return "client"
}

// Client is the part of the backend API the synchronizer needs.
type Client interface {
	CheckAuth(ctx context.Context) (*models.AuthResponse, error)
	Logout(ctx context.Context) (*models.AuthResponse, error)
}

// LoginClient submits credentials to the backend.
type LoginClient interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
}

type SynchronizerOpts struct {
	Client    Client
	Store     *Store
	Navigator Navigator
	Logger    *log.Logger
	Runtime   Runtime
}

// Synchronizer reconciles the [Store] with the backend session.
//
// Every call issues at most one terminal transition. A session check that resolves after a later
// SetAuthenticated or Logout has started is discarded. Store observers must not call back into the
// synchronizer synchronously.
type Synchronizer struct {
	client    Client
	store     *Store
	navigator Navigator
	logger    *log.Logger
	runtime   Runtime

	mu         sync.Mutex
	generation uint64
}

func NewSynchronizer(opts SynchronizerOpts) *Synchronizer {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(Route) {})
	}
	return &Synchronizer{
		client:    opts.Client,
		store:     opts.Store,
		navigator: opts.Navigator,
		logger:    opts.Logger,
		runtime:   opts.Runtime,
	}
}

// Init checks the ambient session and resolves the store. Failures resolve to unauthenticated and are logged.
func (s *Synchronizer) Init(ctx context.Context) {
	if s.runtime != ClientRuntime {
		return
	}

	gen := s.begin()

	next := Unauthenticated()
	resp, err := s.client.CheckAuth(ctx)
	switch {
	case err != nil:
		s.logger.Warn("session check failed", "error", err)
	case resp.Success && resp.UserID != nil:
		next = Authenticated(*resp.UserID)
	default:
		s.logger.Debug("no active session", "message", resp.Message)
	}

	if !s.commit(gen, next) {
		s.logger.Debug("discarding superseded session check")
	}
}

// SetAuthenticated records a successful login without contacting the backend.
func (s *Synchronizer) SetAuthenticated(userID int64) {
	s.apply(Authenticated(userID))
}

// Login submits creds and, when the backend accepts them with a user id, marks the store authenticated.
// The response is returned either way so the caller can show the backend's message.
func (s *Synchronizer) Login(ctx context.Context, client LoginClient, creds models.Credentials) (*models.AuthResponse, error) {
	resp, err := client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if resp.Success && resp.UserID != nil {
		s.SetAuthenticated(*resp.UserID)
	}
	return resp, nil
}

// Logout ends the backend session, resolves the store to unauthenticated and navigates to [RouteLogin].
// A backend failure is logged and does not change the outcome.
func (s *Synchronizer) Logout(ctx context.Context) {
	if _, err := s.client.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", "error", err)
	}
	s.apply(Unauthenticated())
	s.navigator.Navigate(RouteLogin)
}

// begin starts a session check: it claims a new generation and marks the store loading.
func (s *Synchronizer) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.store.Update(func(st State) State {
		st.Loading = true
		return st
	})
	return s.generation
}

// commit applies st only if no later transition has started since gen was claimed.
func (s *Synchronizer) commit(gen uint64, st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.store.Set(st)
	return true
}

// apply supersedes any in-flight check and sets st.
func (s *Synchronizer) apply(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.store.Set(st)
}
