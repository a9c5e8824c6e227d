// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"driftwatch/cli/internal/api"
	"driftwatch/cli/internal/httperrors"
	"driftwatch/cli/internal/manifest"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It shows the currently authenticated account information by validating the
// current session with the backend service.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays information about the currently authenticated account.
It validates the current session by checking with the backend service and shows
the account identifier if authentication is valid.

If no valid session exists, it will indicate that the user is not signed in.
This command is useful for verifying authentication status before running
other commands that require authentication.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			fmt.Println("🔒 You're not signed in yet!")
			fmt.Println("   Run 'driftwatch login' to get started.")
			return nil
		}
		if !sess.SignedIn() {
			fmt.Println("🔒 You're not signed in yet!")
			fmt.Println("   Run 'driftwatch login' to get started.")
			return nil
		}

		// Fetch manifest from server
		m, err := manifest.GetEndpoints(cmd.Context())
		if err != nil {
			return err
		}
		client := api.New(m.HTTPBaseURL(), m.HTTP)

		account, meErr := client.Me(cmd.Context(), sess.Token())
		if meErr == nil {
			fmt.Printf("👤 Current user: %s\n", identifierOf(account, sess))
			return nil
		}

		// Backend unreachable or token stale; fall back to local state
		if sess.UserID() != "" {
			fmt.Printf("👤 Current user: %s\n", sess.UserID())
			return nil
		}

		if errors.Is(meErr, api.ErrUnauthorized) {
			fmt.Println("🔒 You're not signed in yet!")
			fmt.Println("   Run 'driftwatch login' to get started.")
			return nil
		}
		return httperrors.FormatNetworkError(meErr, "checking your account")
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
