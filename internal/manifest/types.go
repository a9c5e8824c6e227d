// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest handles dynamic backend endpoint configuration.
package manifest

import (
	"net/url"
	"strings"
)

// Manifest represents the endpoint configuration published by the server.
type Manifest struct {
	Version int           `json:"version"`
	GRPC    GRPCEndpoints `json:"grpc"`
	HTTP    HTTPEndpoints `json:"http"`
}

// GRPCEndpoints contains gRPC service addresses.
type GRPCEndpoints struct {
	Bridge string `json:"bridge_origin"` // full URL with scheme, e.g. "grpcs://bridge.driftwatch.dev"
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	SignIn  string `json:"sign_in"`      // e.g. "/api/cli/sign-in"
	SignOut string `json:"sign_out"`     // e.g. "/api/cli/sign-out"
	Me      string `json:"account_me"`   // e.g. "/api/cli/me"
	Status  string `json:"drift_status"` // e.g. "/api/cli/status"
	Health  string `json:"health"`       // e.g. "/api/health"
	Version string `json:"version"`      // e.g. "/api/version"
}

// HTTPBaseURL derives the HTTP API base URL from the bridge origin. The
// HTTP API is hosted on the apex of the same domain as the bridge.
func (m *Manifest) HTTPBaseURL() string {
	u, err := url.Parse(m.GRPC.Bridge)
	if err != nil {
		return ""
	}

	scheme := u.Scheme
	switch scheme {
	case "grpcs":
		scheme = "https"
	case "grpc":
		scheme = "http"
	}

	host := strings.TrimPrefix(u.Host, "bridge.")
	return strings.TrimRight(scheme+"://"+host, "/")
}

// GRPCAddress extracts the host:port from the bridge origin URL.
func (m *Manifest) GRPCAddress() string {
	u, err := url.Parse(m.GRPC.Bridge)
	if err != nil {
		return ""
	}
	return u.Host
}
