package auth

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the client's belief about the session.
//
// IsAuthenticated implies UserID != nil. Loading is set only while a session check is in flight.
type State struct {
	IsAuthenticated bool
	UserID          *int64
	Loading         bool
}

// InitialState is the state before the first session check resolves.
func InitialState() State {
	return State{Loading: true}
}

// Authenticated returns the resolved state for a signed-in user.
func Authenticated(userID int64) State {
	return State{IsAuthenticated: true, UserID: &userID}
}

// Unauthenticated returns the resolved signed-out state.
func Unauthenticated() State {
	return State{}
}

// ID returns the user id, or zero when unauthenticated.
func (s State) ID() int64 {
	if s.UserID == nil {
		return 0
	}
	return *s.UserID
}

func (s State) String() string {
	switch {
	case s.Loading:
		return "loading"
	case s.IsAuthenticated:
		return fmt.Sprintf("authenticated as user %d", s.ID())
	default:
		return "not authenticated"
	}
}

// normalize demotes an authenticated state without an id and copies the id so callers cannot mutate it.
func (s State) normalize() State {
	if s.UserID == nil {
		s.IsAuthenticated = false
		return s
	}
	id := *s.UserID
	s.UserID = &id
	return s
}

// Observer receives every state the store takes.
type Observer func(State)

type subscription struct {
	mu        sync.Mutex
	fn        Observer
	active    atomic.Bool
	delivered uint64
}

// deliver calls the observer unless it has already seen this or a later version.
func (sub *subscription) deliver(st State, version uint64) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.active.Load() || version <= sub.delivered {
		return
	}
	sub.delivered = version
	sub.fn(st)
}

// Store is an observable [State] cell, safe for concurrent use.
//
// Transitions are serialized: a Set or Update returns only after every observer has been notified.
// Observers may Subscribe or unsubscribe from inside a callback, but must not call Set or Update synchronously.
type Store struct {
	writeMu sync.Mutex

	mu        sync.Mutex
	state     State
	version   uint64
	observers []*subscription
}

// NewStore creates a store holding [InitialState].
func NewStore() *Store {
	return &Store{state: InitialState(), version: 1}
}

// Get returns the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.normalize()
}

// Subscribe registers fn and calls it immediately with the current state.
// The returned function unsubscribes and is safe to call more than once.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.observers = append(s.observers, sub)
	st, version := s.state.normalize(), s.version
	s.mu.Unlock()

	sub.deliver(st, version)

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o == sub {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				break
			}
		}
	}
}

// Set replaces the state and notifies observers in registration order.
func (s *Store) Set(st State) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.commit(st)
}

// Update replaces the state with fn(current) and notifies observers.
func (s *Store) Update(fn func(State) State) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.commit(fn(s.Get()))
}

// commit stores st and fans it out. Callers hold writeMu.
func (s *Store) commit(st State) {
	st = st.normalize()

	s.mu.Lock()
	s.state = st
	s.version++
	version := s.version
	observers := append([]*subscription(nil), s.observers...)
	s.mu.Unlock()

	for _, sub := range observers {
		sub.deliver(st.normalize(), version)
	}
}
