// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"sync"

	"driftwatch/cli/internal/guard"
	"driftwatch/cli/internal/keychain"
	"driftwatch/cli/internal/session"

	"github.com/spf13/cobra"
)

var (
	sessOnce  sync.Once
	sess      *session.Session
	sessErr   error
	sessGuard *guard.Guard
)

// currentSession returns the process-wide session, loading persisted
// credentials from the OS keychain on first use. When the keychain is
// unavailable (e.g. headless Linux without a secret service) the session
// falls back to in-memory storage, so login works for the lifetime of
// the process but is not persisted.
func currentSession() (*session.Session, error) {
	sessOnce.Do(func() {
		var store session.Store
		if km, err := keychain.GetManager(); err == nil {
			store = km
		} else {
			store = session.NewMemoryStore()
		}
		sess, sessErr = session.Load(store)
		if sessErr == nil {
			sessGuard = guard.New(sess, "login", "whoami")
		}
	})
	return sess, sessErr
}

// requireSession wraps a command handler so it only runs with a signed-in
// session. A signed-out invocation remembers the attempted command, runs
// the interactive login inline, and on success replays the original
// command via resumePending.
func requireSession(next func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := currentSession(); err != nil {
			return err
		}

		decision := sessGuard.Check(guard.Target{Name: cmd.Name(), Args: args})
		if decision.Action == guard.Allow {
			return next(cmd, args)
		}

		fmt.Println("🔒 You need to sign in first.")
		fmt.Println()
		return runInteractiveLogin(cmd)
	}
}

// resumePending continues where a redirected command left off: it replays
// the command recorded by the guard, or lands on the account summary when
// nothing is pending.
func resumePending(cmd *cobra.Command) error {
	target := sessGuard.Resume()
	return dispatch(cmd, target)
}

// dispatch runs the named sibling command with the given arguments.
func dispatch(cmd *cobra.Command, target guard.Target) error {
	for _, c := range cmd.Root().Commands() {
		if c.Name() == target.Name && c.RunE != nil {
			return c.RunE(c, target.Args)
		}
	}
	return fmt.Errorf("unknown command %q", target.Name)
}
