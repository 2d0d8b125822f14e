package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skillswap/internal/auth"
	"github.com/desertthunder/skillswap/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgNavigate
	MsgPostsFetched
	MsgProfileFetched
	MsgLoginResult
	MsgPostDeleted
)

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(state auth.State) Msg {
	return Msg{kind: MsgStateChanged, data: state}
}

// navigateMsg is the constructor for [MsgNavigate]
func navigateMsg(route auth.Route) Msg {
	return Msg{kind: MsgNavigate, data: route}
}

type postsFetched struct {
	title string
	posts []models.Post
	err   error
}

// postsFetchedMsg is the constructor for [MsgPostsFetched]
func postsFetchedMsg(title string, posts []models.Post, err error) Msg {
	return Msg{kind: MsgPostsFetched, data: postsFetched{title, posts, err}}
}

type profileFetched struct {
	profile *models.UserProfile
	err     error
}

// profileFetchedMsg is the constructor for [MsgProfileFetched]
func profileFetchedMsg(profile *models.UserProfile, err error) Msg {
	return Msg{kind: MsgProfileFetched, data: profileFetched{profile, err}}
}

type loginResult struct {
	resp *models.AuthResponse
	err  error
}

// loginResultMsg is the constructor for [MsgLoginResult]
func loginResultMsg(resp *models.AuthResponse, err error) Msg {
	return Msg{kind: MsgLoginResult, data: loginResult{resp, err}}
}

type postDeleted struct {
	id  int64
	err error
}

// postDeletedMsg is the constructor for [MsgPostDeleted]
func postDeletedMsg(id int64, err error) Msg {
	return Msg{kind: MsgPostDeleted, data: postDeleted{id, err}}
}
