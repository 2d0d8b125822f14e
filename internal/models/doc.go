// Package models defines the skill-swap domain entities exchanged with the backend.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring backend JSON payloads
//   - [Post] : A listing offering or requesting a skill
//   - [NewPost] : Fields submitted when creating a listing
//   - [NewUser] : Registration payload
//   - [UserProfile] : Public profile of a user
//   - [AuthResponse] : Result of login, register, logout and session checks
//   - [Credentials] : Login envelope, never stored
//
// 2. Persistent Entities: Database-backed models implementing [Model]
//   - [StoredCookie] : A session cookie captured by the backend client's jar
//
// [Category] values come from a static taxonomy; [ValidCategory] checks membership.
package models
