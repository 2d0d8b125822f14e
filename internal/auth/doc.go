// Package auth holds the client-side view of the user's session.
//
// [Store] is the single observable [State]. [Synchronizer] is the only writer: it asks the backend whether the
// ambient session cookie is valid ([Synchronizer.Init]), records a login ([Synchronizer.SetAuthenticated]) and ends
// the session ([Synchronizer.Logout]). [Guard] watches the store and sends unauthenticated users to [RouteLogin]
// once the state has resolved.
//
// State is process local and never persisted; it is rebuilt from the backend on every start.
package auth
