// Package ui implements an interactive terminal client using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the skill-swap backend:
//  1. [LoadingView] : Waits for the session check on startup
//  2. [LoginView] : Email and password form
//  3. [FeedView] : Browse the community feed (all, offers, requests) or your own posts
//  4. [DetailView] : A single post with its author's profile
//  5. [ConfirmView] : Confirm deleting one of your posts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
//
// Session state lives in an [auth.Store]. The model subscribes to it and relays every state change through a channel,
// and an [auth.Guard] sends the user to the login view once the startup check resolves without a session. Logging out
// goes through [auth.Synchronizer.Logout], which also navigates to the login view. Navigation requests arrive on a
// second channel, so store observers never block on the UI.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
