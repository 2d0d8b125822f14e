// Package repositories implements SQLite persistence for client-side state.
//
// The only persisted state is the ambient session credential: [CookieRepository] stores the cookies the backend
// sets on the client's jar, keyed by backend host, so a CLI invocation reuses the session established by an earlier
// `auth login`. Authentication state itself is never persisted; it is rebuilt from the backend on every start.
//
// Rows are unique per (host, name). [CookieRepository.ReplaceHost] swaps a host's cookie set atomically, which is
// how a cleared session (logout) removes its rows.
package repositories
