// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"testing"

	"driftwatch/cli/internal/session"
)

func TestSignOutAndClearOnRemoteFailure(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Set(session.KeyToken, "tok-123"); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
	if err := store.Set(session.KeyUserID, "user-7"); err != nil {
		t.Fatalf("seeding user id: %v", err)
	}
	sess, err := session.Load(store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	called := false
	remote := func(ctx context.Context, token string) error {
		called = true
		if token != "tok-123" {
			t.Errorf("remote sign-out got token %q, want %q", token, "tok-123")
		}
		return errors.New("backend unreachable")
	}

	if err := signOutAndClear(context.Background(), sess, remote); err != nil {
		t.Fatalf("signOutAndClear returned error: %v", err)
	}

	if !called {
		t.Error("remote sign-out was not attempted")
	}
	if sess.SignedIn() {
		t.Error("session still signed in after logout")
	}
	if v, _ := store.Get(session.KeyToken); v != "" {
		t.Errorf("token still in store after logout: %q", v)
	}
	if v, _ := store.Get(session.KeyUserID); v != "" {
		t.Errorf("user id still in store after logout: %q", v)
	}
}

func TestSignOutAndClearSkipsRemoteWhenSignedOut(t *testing.T) {
	sess, err := session.Load(session.NewMemoryStore())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	remote := func(ctx context.Context, token string) error {
		t.Error("remote sign-out called for a signed-out session")
		return nil
	}

	if err := signOutAndClear(context.Background(), sess, remote); err != nil {
		t.Fatalf("signOutAndClear returned error: %v", err)
	}
}

func TestSignOutAndClearWithoutRemote(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Set(session.KeyToken, "tok-9"); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
	sess, err := session.Load(store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if err := signOutAndClear(context.Background(), sess, nil); err != nil {
		t.Fatalf("signOutAndClear returned error: %v", err)
	}
	if v, _ := store.Get(session.KeyToken); v != "" {
		t.Errorf("token still in store after logout: %q", v)
	}
}
