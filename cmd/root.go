// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Driftwatch CLI application.
// It implements various subcommands for schema drift monitoring, authentication, and
// configuration using the Cobra CLI framework. The package handles command parsing,
// execution, and provides a rich terminal UI with spinners and progress indicators.
package cmd

import (
	"context"
	"fmt"
	"os"

	"driftwatch/cli/internal/api"
	"driftwatch/cli/internal/manifest"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Driftwatch CLI application.
var rootCmd = &cobra.Command{
	Use:           "driftwatch",
	Short:         "Driftwatch CLI for PostgreSQL schema drift monitoring",
	Long:          `Driftwatch is a command-line tool that captures PostgreSQL schema snapshots and compares them against a hosted baseline to detect schema drift.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := context.Background()
			// Fetch manifest from server
			m, err := manifest.GetEndpoints(ctx)
			if err != nil {
				return err
			}

			client := api.New(m.HTTPBaseURL(), m.HTTP)
			backendVersion, err := client.Version(ctx)
			if err != nil {
				backendVersion = "unknown"
			}

			fmt.Printf("driftwatch %s\nbackend %s\n", Version, backendVersion)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
}
