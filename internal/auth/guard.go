package auth

import (
	"sync"
	"sync/atomic"
)

// Guard redirects unauthenticated users to [RouteLogin].
type Guard struct {
	store     *Store
	navigator Navigator
}

func NewGuard(store *Store, navigator Navigator) *Guard {
	return &Guard{store: store, navigator: navigator}
}

// RequireAuth waits for the store to resolve, then decides once: an unauthenticated state navigates to
// [RouteLogin]; an authenticated one does nothing. Loading states are ignored.
//
// The returned cancel abandons a pending decision and is safe to call more than once.
func (g *Guard) RequireAuth() (cancel func()) {
	var (
		decided atomic.Bool
		once    sync.Once
		mu      sync.Mutex
		unsub   func()
		done    bool
	)

	release := func() {
		once.Do(func() {
			mu.Lock()
			done = true
			u := unsub
			mu.Unlock()
			if u != nil {
				u()
			}
		})
	}

	u := g.store.Subscribe(func(st State) {
		if st.Loading || !decided.CompareAndSwap(false, true) {
			return
		}
		if !st.IsAuthenticated {
			g.navigator.Navigate(RouteLogin)
		}
		release()
	})

	mu.Lock()
	unsub = u
	finished := done
	mu.Unlock()

	// Decided during the immediate callback, before the unsubscribe func existed.
	if finished {
		u()
	}

	return func() {
		decided.Store(true)
		release()
		u()
	}
}
