// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"reflect"
	"testing"

	"driftwatch/cli/internal/session"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	s, err := session.Load(session.NewMemoryStore())
	if err != nil {
		t.Fatalf("session.Load() error: %v", err)
	}
	if token != "" {
		if err := s.SetToken(token); err != nil {
			t.Fatalf("SetToken() error: %v", err)
		}
	}
	return s
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		target string
		want   Action
	}{
		{
			name:   "login target while signed out",
			token:  "",
			target: "login",
			want:   Allow,
		},
		{
			name:   "login target while signed in",
			token:  "tok",
			target: "login",
			want:   Allow,
		},
		{
			name:   "protected target while signed in",
			token:  "tok",
			target: "status",
			want:   Allow,
		},
		{
			name:   "protected target while signed out",
			token:  "",
			target: "status",
			want:   Redirect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(newSession(t, tt.token), "login", "whoami")
			dec := g.Check(Target{Name: tt.target})
			if dec.Action != tt.want {
				t.Errorf("Check(%q).Action = %v, want %v", tt.target, dec.Action, tt.want)
			}
			if tt.want == Redirect && dec.RedirectTo.Name != "login" {
				t.Errorf("RedirectTo = %q, want login", dec.RedirectTo.Name)
			}
		})
	}
}

func TestRedirectRecordsDestinationOnce(t *testing.T) {
	s := newSession(t, "")
	g := New(s, "login", "whoami")

	first := Target{Name: "status", Args: []string{"--json"}}
	g.Check(first)
	// A second blocked attempt must not overwrite the recorded destination.
	g.Check(Target{Name: "snapshot"})

	got, ok := s.AttemptedDestination().(Target)
	if !ok {
		t.Fatalf("AttemptedDestination() = %T, want Target", s.AttemptedDestination())
	}
	if !reflect.DeepEqual(got, first) {
		t.Errorf("recorded destination = %+v, want %+v", got, first)
	}
}

func TestLoginTargetDoesNotRecordDestination(t *testing.T) {
	s := newSession(t, "")
	g := New(s, "login", "whoami")
	g.Check(Target{Name: "login"})
	if s.AttemptedDestination() != nil {
		t.Error("Check(login) recorded an attempted destination")
	}
}

func TestResume(t *testing.T) {
	s := newSession(t, "")
	g := New(s, "login", "whoami")

	g.Check(Target{Name: "connect", Args: []string{"--verbose"}})
	if err := s.SetToken("tok"); err != nil {
		t.Fatal(err)
	}

	dest := g.Resume()
	want := Target{Name: "connect", Args: []string{"--verbose"}}
	if !reflect.DeepEqual(dest, want) {
		t.Errorf("Resume() = %+v, want %+v", dest, want)
	}

	// Nothing pending anymore: land on the default target.
	if dest := g.Resume(); dest.Name != "whoami" {
		t.Errorf("second Resume() = %q, want whoami", dest.Name)
	}
}

func TestResumeWithoutRedirect(t *testing.T) {
	g := New(newSession(t, "tok"), "login", "whoami")
	if dest := g.Resume(); dest.Name != "whoami" {
		t.Errorf("Resume() = %q, want whoami", dest.Name)
	}
}
