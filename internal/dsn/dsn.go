// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and normalizes PostgreSQL connection strings.
// Driftwatch links PostgreSQL databases only; other schemes are rejected
// with a hint. Normalization URL-encodes credentials so DSNs with special
// characters in the password survive the round trip into pgx.
package dsn

import "fmt"

// Info contains parsed fields from a connection string.
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
}

// ParseError describes an invalid connection string with an optional hint.
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

// NewParseError creates a ParseError.
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{DSN: dsn, Reason: reason, Hint: hint}
}

// Parse parses a connection string and returns its normalized form.
func Parse(dsn string) (string, error) {
	info, err := ParseInfo(dsn)
	if err != nil {
		return "", err
	}
	return normalize(info)
}

// Validate checks a connection string without normalizing it.
func Validate(dsn string) error {
	info, err := ParseInfo(dsn)
	if err != nil {
		return err
	}
	return validateInfo(dsn, info)
}

// ParseInfo parses a connection string into its parts. Useful for
// inspecting connection details.
func ParseInfo(dsn string) (*Info, error) {
	if dsn == "" {
		return nil, NewParseError(dsn, "empty DSN", "provide a valid database connection string")
	}
	if !hasPostgresScheme(dsn) {
		return nil, NewParseError(dsn, "unsupported database type", "driftwatch supports PostgreSQL only; use postgres:// or postgresql://")
	}
	return parsePostgres(dsn)
}
