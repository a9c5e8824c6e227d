// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines interfaces and implementations for bridging between the
// CLI and backend services. It provides abstractions for different transport
// mechanisms while maintaining a consistent interface for snapshot upload and
// event streaming during schema drift scans.
//
// The package enables pluggable transport implementations while providing a
// unified API for the CLI to interact with various backend services.
package bridge

import (
	"context"

	"driftwatch/cli/internal/bridge/grpcclient"
	"driftwatch/cli/internal/bridge/model"
	"driftwatch/cli/internal/drift"
	"driftwatch/cli/internal/schema"
)

// Bridge represents a connection to backend for transporting snapshots and UI events.
type Bridge interface {
	// Connect establishes transport to backend. addr is gRPC address when using gRPC implementation.
	Connect(ctx context.Context, addr string, accessToken string) error
	// Init sends initial session parameters (sessionID may be empty to create new).
	Init(ctx context.Context, sessionID string, dbName string) error
	// SendSnapshot uploads a captured schema snapshot for comparison.
	SendSnapshot(ctx context.Context, snap *schema.Snapshot) error
	Close(ctx context.Context) error
	// Events returns a stream of scan/logging events from backend for rendering.
	Events() <-chan drift.Event
	// Tasks returns a stream of detail requests coming from backend.
	Tasks() <-chan model.DetailTask
	// SendDetailResponse sends a detail result back to backend.
	SendDetailResponse(ctx context.Context, resp model.DetailResponse) error
}

// New creates a new bridge instance.
// It returns a gRPC client bridge.
func New() Bridge {
	return &grpcclient.Client{}
}
