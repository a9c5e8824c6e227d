// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// StreamErrorType represents the category of a bridge stream error.
type StreamErrorType int

const (
	StreamErrorUnknown StreamErrorType = iota
	StreamErrorNetwork
	StreamErrorAuth
	StreamErrorTimeout
	StreamErrorInternal
	StreamErrorUnavailable
)

// ParseStreamError categorizes a gRPC stream error message.
func ParseStreamError(errMsg string) StreamErrorType {
	lower := strings.ToLower(errMsg)

	if strings.Contains(lower, "rst_stream") || strings.Contains(lower, "connection reset") {
		return StreamErrorNetwork
	}
	if strings.Contains(lower, "internal_error") {
		return StreamErrorInternal
	}
	if strings.Contains(lower, "unavailable") || strings.Contains(lower, "service unavailable") {
		return StreamErrorUnavailable
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return StreamErrorTimeout
	}
	if strings.Contains(lower, "unauthenticated") || strings.Contains(lower, "unauthorized") {
		return StreamErrorAuth
	}

	return StreamErrorUnknown
}

// FormatStreamError formats a bridge stream error in a user-friendly way.
func FormatStreamError(errMsg string) string {
	errType := ParseStreamError(errMsg)

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Connection Lost"))
	builder.WriteString("\n\n")

	switch errType {
	case StreamErrorNetwork:
		builder.WriteString("The connection to Driftwatch was interrupted unexpectedly.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • Your internet connection was disrupted\n")
		builder.WriteString("  • The network path to the service was interrupted\n")
		builder.WriteString("  • A firewall or proxy closed the connection\n")

	case StreamErrorInternal:
		builder.WriteString("An internal error occurred on the Driftwatch service.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The service encountered an unexpected issue\n")
		builder.WriteString("  • The service is being updated or restarted\n")

	case StreamErrorUnavailable:
		builder.WriteString("The Driftwatch service is currently unavailable.\n")
		builder.WriteString("Possible reasons:\n")
		builder.WriteString("  • The service is under maintenance\n")
		builder.WriteString("  • The service is temporarily overloaded\n")

	case StreamErrorTimeout:
		builder.WriteString("The connection to Driftwatch timed out.\n")
		builder.WriteString("This could be due to:\n")
		builder.WriteString("  • Slow or unstable internet connection\n")
		builder.WriteString("  • The service taking too long to respond\n")

	case StreamErrorAuth:
		builder.WriteString("Authentication with Driftwatch failed.\n")
		builder.WriteString("Your session may have expired.\n")

	default:
		builder.WriteString("The snapshot session was interrupted.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • Network connection dropped\n")
		builder.WriteString("  • Service is restarting or under maintenance\n")
	}

	builder.WriteString("\n")

	if errType == StreamErrorAuth {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'driftwatch login' and try again"))
	} else {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try running 'driftwatch snapshot' again"))
	}
	builder.WriteString("\n")

	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentStreamError displays a formatted stream error.
func PresentStreamError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatStreamError(errMsg))
	fmt.Println()
}
