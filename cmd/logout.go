// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"driftwatch/cli/internal/api"
	"driftwatch/cli/internal/keychain"
	"driftwatch/cli/internal/manifest"
	"driftwatch/cli/internal/session"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes all saved credentials and tokens from the local system and
// attempts to invalidate the session on the backend (best-effort).
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all saved credentials and tokens",
	Long: `The logout command clears all authentication state from the local system.
It also attempts to notify the backend service to invalidate the current
session (best-effort): local credentials are removed even when the backend
is unreachable.

This command removes:
- The access token from the OS keychain
- The stored account identifier
- Database connection credentials
- Any pending resume state`,

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		var remoteSignOut func(context.Context, string) error
		if sess.SignedIn() {
			if m, err := manifest.GetEndpoints(cmd.Context()); err == nil {
				client := api.New(m.HTTPBaseURL(), m.HTTP)
				remoteSignOut = client.SignOut
			}
		}

		if err := signOutAndClear(cmd.Context(), sess, remoteSignOut); err != nil {
			return err
		}
		if km, err := keychain.GetManager(); err == nil {
			_ = km.Delete(keychain.KeyDBDSN)
		}

		fmt.Println("✅ All credentials and tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// signOutAndClear invalidates the session on the backend (best effort) and then
// clears local session state. Local clearing happens unconditionally: a failed
// or unreachable backend never leaves credentials behind.
func signOutAndClear(ctx context.Context, sess *session.Session, remoteSignOut func(context.Context, string) error) error {
	if sess.SignedIn() && remoteSignOut != nil {
		_ = remoteSignOut(ctx, sess.Token()) // Ignore error - best effort
	}
	return sess.Clear()
}
