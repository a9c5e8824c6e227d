package manifest

import (
	"context"

	apperrors "driftwatch/cli/internal/errors"

	"github.com/pterm/pterm"
)

// GetEndpoints returns the manifest endpoints, fetching from the server
// and caching in RAM on first use within the process.
func GetEndpoints(ctx context.Context) (*Manifest, error) {
	if cached := GetCached(); cached != nil {
		return cached, nil
	}

	manifest, err := fetchFromServer(ctx)
	if err != nil {
		return nil, formatServerError(err)
	}

	SetCached(manifest)
	return manifest, nil
}

// formatServerError creates user-friendly messages for fetch failures.
func formatServerError(err error) error {
	pterm.Error.Println("Cannot connect to driftwatch.dev")
	pterm.Println()
	pterm.Info.Println("Please check:")
	pterm.Println("  • Your internet connection")
	pterm.Println("  • Whether driftwatch.dev is accessible from your network")
	pterm.Println("  • Firewall settings that might block HTTPS requests")
	pterm.Println()

	return apperrors.Wrap(apperrors.ManifestUnavailable, "server unreachable", err)
}
