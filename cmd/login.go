// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"driftwatch/cli/internal/api"
	apperrors "driftwatch/cli/internal/errors"
	"driftwatch/cli/internal/httperrors"
	"driftwatch/cli/internal/manifest"
	"driftwatch/cli/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command for credential authentication.
// It prompts for email and password, exchanges them for an access token and
// stores the token and account identifier securely in the OS keychain.
// If a command was interrupted by a sign-in requirement, a successful login
// resumes that command.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with email and password",
	Long: `The login command authenticates against the Driftwatch backend with email and
password. On success the access token and account identifier are stored
securely in the OS keychain so subsequent commands run without signing in
again.

If you were redirected here from another command, that command continues
automatically after a successful login.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		// If already signed in with a valid token, short-circuit
		if sess.SignedIn() {
			m, err := manifest.GetEndpoints(cmd.Context())
			if err == nil {
				client := api.New(m.HTTPBaseURL(), m.HTTP)
				if account, err := client.Me(cmd.Context(), sess.Token()); err == nil {
					fmt.Printf("Already signed in as %s\n", identifierOf(account, sess))
					return nil
				}
			}
			// Token present but stale; fall through to a fresh login
		}

		return runInteractiveLogin(cmd)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// runInteractiveLogin prompts for credentials, signs in and persists the
// session. On success it resumes any command that was waiting on sign-in.
func runInteractiveLogin(cmd *cobra.Command) error {
	sess, err := currentSession()
	if err != nil {
		return err
	}

	m, err := manifest.GetEndpoints(cmd.Context())
	if err != nil {
		return err
	}
	client := api.New(m.HTTPBaseURL(), m.HTTP)

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	if password == "" {
		return errors.New("password is required")
	}

	token, userID, err := client.SignIn(cmd.Context(), email, password)
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			fmt.Println("❌ Invalid email or password.")
			return apperrors.Wrap(apperrors.SignInFailed, "invalid credentials", err)
		}
		return apperrors.Wrap(apperrors.SignInFailed, "sign-in request failed",
			httperrors.FormatNetworkError(err, "signing in"))
	}

	if err := sess.SetToken(token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := sess.SetUserID(userID); err != nil {
		return fmt.Errorf("failed to store account identifier: %w", err)
	}

	fmt.Println(getRandomLoginGreeting(email))
	fmt.Println()

	return resumePending(cmd)
}

// identifierOf picks the friendliest available identifier for an account.
func identifierOf(account *api.Account, sess *session.Session) string {
	if account != nil && account.Email != "" {
		return account.Email
	}
	if account != nil && account.UserID != "" {
		return account.UserID
	}
	return sess.UserID()
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to watch some schemas?",
		"💫 Successfully authenticated as %s",
		"🌟 Welcome aboard, %s!",
		"⚡ Signed in as %s - let's go!",
		"✅ Authentication complete! Hi %s!",
		"🎯 You're in, %s!",
		"🔓 Access granted! Welcome %s!",
	}

	idx := rand.Intn(len(greetings))
	return fmt.Sprintf(greetings[idx], identifier)
}
