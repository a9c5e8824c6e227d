// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"errors"
	"testing"
)

func TestSignedIn(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "empty token",
			token: "",
			want:  false,
		},
		{
			name:  "non-empty token",
			token: "tok-123",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(NewMemoryStore())
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if err := s.SetToken(tt.token); err != nil {
				t.Fatalf("SetToken() error: %v", err)
			}
			if got := s.SignedIn(); got != tt.want {
				t.Errorf("SignedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetTokenPersists(t *testing.T) {
	store := NewMemoryStore()
	s, err := Load(store)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := s.SetToken("tok-abc"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if got, _ := store.Get(KeyToken); got != "tok-abc" {
		t.Errorf("store token = %q, want %q", got, "tok-abc")
	}

	if err := s.SetUserID("u-1"); err != nil {
		t.Fatalf("SetUserID() error: %v", err)
	}
	if got, _ := store.Get(KeyUserID); got != "u-1" {
		t.Errorf("store user id = %q, want %q", got, "u-1")
	}
}

func TestLoadReadsPersistedValues(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set(KeyToken, "tok-persisted"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(KeyUserID, "u-9"); err != nil {
		t.Fatal(err)
	}

	s, err := Load(store)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !s.SignedIn() {
		t.Error("SignedIn() = false after loading persisted token")
	}
	if s.Token() != "tok-persisted" {
		t.Errorf("Token() = %q, want %q", s.Token(), "tok-persisted")
	}
	if s.UserID() != "u-9" {
		t.Errorf("UserID() = %q, want %q", s.UserID(), "u-9")
	}
}

func TestClear(t *testing.T) {
	store := NewMemoryStore()
	s, err := Load(store)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.SetToken("tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUserID("u-1"); err != nil {
		t.Fatal(err)
	}
	s.SetAttemptedDestination("somewhere")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if s.SignedIn() {
		t.Error("SignedIn() = true after Clear()")
	}
	if got, _ := store.Get(KeyToken); got != "" {
		t.Errorf("store token = %q after Clear(), want empty", got)
	}
	if got, _ := store.Get(KeyUserID); got != "" {
		t.Errorf("store user id = %q after Clear(), want empty", got)
	}
	if d := s.AttemptedDestination(); d != nil {
		t.Errorf("AttemptedDestination() = %v after Clear(), want nil", d)
	}
}

func TestTakeAttemptedDestination(t *testing.T) {
	s, err := Load(NewMemoryStore())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, ok := s.TakeAttemptedDestination(); ok {
		t.Error("TakeAttemptedDestination() reported a destination on a fresh session")
	}

	s.SetAttemptedDestination("status")
	d, ok := s.TakeAttemptedDestination()
	if !ok || d != "status" {
		t.Errorf("TakeAttemptedDestination() = (%v, %v), want (status, true)", d, ok)
	}
	if _, ok := s.TakeAttemptedDestination(); ok {
		t.Error("TakeAttemptedDestination() returned a destination twice")
	}
}

// failingStore rejects writes so local-first semantics can be observed.
type failingStore struct{ MemoryStore }

func (f *failingStore) Set(key, value string) error {
	return errors.New("store unavailable")
}

func TestSetTokenUpdatesMemoryBeforeStore(t *testing.T) {
	s, err := Load(&failingStore{MemoryStore{values: map[string]string{}}})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.SetToken("tok"); err == nil {
		t.Fatal("SetToken() error = nil, want store failure")
	}
	if !s.SignedIn() {
		t.Error("SignedIn() = false; in-memory token must be set despite store failure")
	}
}
