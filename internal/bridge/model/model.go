// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines shared data structures for bridge communication.
// It provides type definitions for detail requests, responses, and other
// data structures that are exchanged between the CLI and backend services
// through various bridge implementations.
//
// The types in this package are designed to be transport-agnostic and
// provide a stable interface for different communication protocols.
package model

// DetailTask models a backend request for more information about a
// database object, asked while a comparison runs.
type DetailTask struct {
	RequestID string
	SessionID string
	Object    string // qualified object name, e.g. "public.users"
	Aspect    string // columns|primary_key|full
}

// DetailResponse is the result of serving a DetailTask.
type DetailResponse struct {
	RequestID  string
	Success    bool
	ResultJSON string
}
