// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"driftwatch/cli/internal/api"
	"driftwatch/cli/internal/dsn"
	"driftwatch/cli/internal/httperrors"
	"driftwatch/cli/internal/keychain"
	"driftwatch/cli/internal/manifest"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	statusDatabase string
)

// statusCmd represents the status command for querying the last recorded
// drift state of a monitored database. It asks the backend for the most
// recent comparison result without capturing a new snapshot.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last recorded drift state for a database",
	Long: `The status command queries the backend for the most recent drift comparison
of a monitored database. It does not connect to the database or capture a
new snapshot; run 'driftwatch snapshot' for a fresh comparison.

The database defaults to the one configured via 'driftwatch connect'.`,

	RunE: requireSession(func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		database := strings.TrimSpace(statusDatabase)
		if database == "" {
			database = configuredDatabase()
		}
		if database == "" {
			fmt.Println("⚠️  No database configured.")
			fmt.Println("   Run 'driftwatch connect' first, or pass --database.")
			return nil
		}

		m, err := manifest.GetEndpoints(cmd.Context())
		if err != nil {
			return err
		}
		client := api.New(m.HTTPBaseURL(), m.HTTP)

		st, err := client.Status(cmd.Context(), sess.Token(), database)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return err
			}
			return httperrors.FormatNetworkError(err, "fetching drift status")
		}

		renderDriftStatus(st)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusDatabase, "database", "", "Database name to query (defaults to the connected database)")
}

// configuredDatabase derives the database name from the DSN stored in the
// keychain. Returns an empty string when no valid DSN is stored.
func configuredDatabase() string {
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	stored, err := km.Get(keychain.KeyDBDSN)
	if err != nil || strings.TrimSpace(stored) == "" {
		return ""
	}
	info, err := dsn.ParseInfo(stored)
	if err != nil {
		return ""
	}
	return info.Database
}

// renderDriftStatus prints a drift report for one database.
func renderDriftStatus(st *api.DriftStatus) {
	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Database:    ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(st.Database))
	if st.Fingerprint != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Fingerprint: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(shortFingerprint(st.Fingerprint)))
	}
	if !st.LastSnapshot.IsZero() {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Last check:  ") + st.LastSnapshot.Local().Format("2006-01-02 15:04:05"))
	}
	pterm.Println()

	if !st.Drifted {
		pterm.Success.Println("No drift recorded")
		return
	}

	pterm.Warning.Printfln("Drift detected: %d finding(s)", len(st.Findings))
	for _, f := range st.Findings {
		label := pterm.FgYellow.Sprint(f.Change)
		if f.Severity == "breaking" {
			label = pterm.FgRed.Sprint(f.Change)
		}
		line := "  " + label + "  " + f.Object
		if f.Detail != "" {
			line += "  " + pterm.FgGray.Sprint(f.Detail)
		}
		pterm.Println(line)
	}
}

// shortFingerprint truncates a fingerprint for display.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
