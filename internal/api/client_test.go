// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"driftwatch/cli/internal/manifest"
)

var testEndpoints = manifest.HTTPEndpoints{
	SignIn:  "/api/cli/sign-in",
	SignOut: "/api/cli/sign-out",
	Me:      "/api/cli/me",
	Status:  "/api/cli/status",
	Version: "/api/version",
}

func TestSignIn(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantUser  string
		wantErr   error
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"token":"tok-1","user_id":"u-1"}`,
			wantToken: "tok-1",
			wantUser:  "u-1",
		},
		{
			name:    "rejected credentials",
			status:  http.StatusUnauthorized,
			body:    `{"error":"bad credentials"}`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:   "missing token in response",
			status: http.StatusOK,
			body:   `{"user_id":"u-1"}`,
			// generic error, just has to fail
			wantErr: errors.New("sign-in response missing token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != testEndpoints.SignIn {
					t.Errorf("path = %q, want %q", r.URL.Path, testEndpoints.SignIn)
				}
				var req map[string]string
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req["email"] != "a@b.c" {
					t.Errorf("email = %q, want a@b.c", req["email"])
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, testEndpoints)
			token, userID, err := c.SignIn(context.Background(), "a@b.c", "secret")

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("SignIn() error = nil, want error")
				}
				if errors.Is(tt.wantErr, ErrInvalidCredentials) && !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("SignIn() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignIn() error: %v", err)
			}
			if token != tt.wantToken || userID != tt.wantUser {
				t.Errorf("SignIn() = (%q, %q), want (%q, %q)", token, userID, tt.wantToken, tt.wantUser)
			}
		})
	}
}

func TestSignOutSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, testEndpoints)
	if err := c.SignOut(context.Background(), "tok-9"); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if gotAuth != "Bearer tok-9" {
		t.Errorf("Authorization = %q, want Bearer tok-9", gotAuth)
	}
}

func TestSignOutToleratesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, testEndpoints)
	// An already-dead token is not an error worth surfacing on sign-out.
	if err := c.SignOut(context.Background(), "expired"); err != nil {
		t.Errorf("SignOut() error = %v, want nil", err)
	}
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"u-1","email":"a@b.c"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testEndpoints)

	acct, err := c.Me(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if acct.UserID != "u-1" || acct.Email != "a@b.c" {
		t.Errorf("Me() = %+v", acct)
	}

	if _, err := c.Me(context.Background(), "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Me() with bad token error = %v, want ErrUnauthorized", err)
	}
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("database"); got != "appdb" {
			t.Errorf("database query = %q, want appdb", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"database":"appdb","drifted":true,"findings":[{"object":"public.users","change":"altered","detail":"column email widened","severity":"warning"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testEndpoints)
	st, err := c.Status(context.Background(), "tok-1", "appdb")
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !st.Drifted || len(st.Findings) != 1 {
		t.Errorf("Status() = %+v", st)
	}
	if st.Findings[0].Object != "public.users" {
		t.Errorf("finding object = %q", st.Findings[0].Object)
	}
}
