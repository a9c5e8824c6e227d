// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the signed-in state for the current CLI process.
// A Session is created once at startup by reading the persisted token and
// user id from a backing key-value store (the OS keychain in production),
// and every mutation writes through to that store synchronously. Being
// signed in is purely derived: a session is signed in exactly when its
// token is non-empty.
package session

import "fmt"

// Keys under which session fields are persisted in the backing store.
const (
	KeyToken  = "auth_token"
	KeyUserID = "user_id"
)

// Store is the durable key-value backing for session fields. Get returns
// an empty string without error for keys that were never set.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Destination is an opaque navigation-resumption handle. The session only
// carries it between a guard redirect and the post-login resume; it is
// never persisted.
type Destination any

// Session is the authentication state holder. It is owned by the running
// process and mutated only from the command goroutine, so it carries no
// locking of its own.
type Session struct {
	store     Store
	token     string
	userID    string
	attempted Destination
}

// Load creates a Session backed by store, reading any persisted token and
// user id. Absent values yield a signed-out session.
func Load(store Store) (*Session, error) {
	token, err := store.Get(KeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	userID, err := store.Get(KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("load user id: %w", err)
	}
	return &Session{store: store, token: token, userID: userID}, nil
}

// SignedIn reports whether the session holds a non-empty token.
func (s *Session) SignedIn() bool {
	return s.token != ""
}

// Token returns the current authentication token, empty when signed out.
func (s *Session) Token() string { return s.token }

// UserID returns the current user identifier, empty when unknown.
func (s *Session) UserID() string { return s.userID }

// SetToken updates the token and writes it through to the store. The
// in-memory value is updated before the store write, so local state stays
// authoritative even when persistence fails.
func (s *Session) SetToken(token string) error {
	s.token = token
	if token == "" {
		return s.store.Delete(KeyToken)
	}
	return s.store.Set(KeyToken, token)
}

// SetUserID updates the user id and writes it through to the store.
func (s *Session) SetUserID(userID string) error {
	s.userID = userID
	if userID == "" {
		return s.store.Delete(KeyUserID)
	}
	return s.store.Set(KeyUserID, userID)
}

// Clear wipes all session fields, including any pending destination, and
// removes the persisted entries. The in-memory state is cleared first and
// unconditionally.
func (s *Session) Clear() error {
	s.token = ""
	s.userID = ""
	s.attempted = nil
	if err := s.store.Delete(KeyToken); err != nil {
		return err
	}
	return s.store.Delete(KeyUserID)
}

// SetAttemptedDestination records the navigation target the user tried to
// reach before being redirected to login. Process-lifetime only.
func (s *Session) SetAttemptedDestination(d Destination) {
	s.attempted = d
}

// AttemptedDestination returns the pending destination, nil when none.
func (s *Session) AttemptedDestination() Destination {
	return s.attempted
}

// TakeAttemptedDestination returns and clears the pending destination.
func (s *Session) TakeAttemptedDestination() (Destination, bool) {
	d := s.attempted
	s.attempted = nil
	return d, d != nil
}
