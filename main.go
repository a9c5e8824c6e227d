// Package main is the entry point for the Driftwatch CLI application.
// It provides PostgreSQL schema drift monitoring through a gRPC bridge interface.
package main

import (
	"driftwatch/cli/cmd"
)

// main is the entry point for the Driftwatch CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
