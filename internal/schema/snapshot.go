// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package schema captures PostgreSQL schema snapshots for drift detection.
// A snapshot is a canonical description of every user table (columns,
// types, nullability, defaults, primary keys) plus a fingerprint that
// changes if and only if the schema changes.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Column describes a single table column.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
}

// Table describes a table with its columns and primary key.
type Table struct {
	// Schema is the PostgreSQL schema name, usually "public"
	Schema string `json:"schema"`
	// Name is the unqualified table name
	Name string `json:"name"`
	// Columns are listed in ordinal position order
	Columns []Column `json:"columns"`
	// PrimaryKey lists primary key column names in key order
	PrimaryKey []string `json:"primary_key,omitempty"`
}

// QualifiedName returns "schema.name".
func (t *Table) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// Snapshot is a point-in-time capture of a database schema.
type Snapshot struct {
	Database   string    `json:"database"`
	CapturedAt time.Time `json:"captured_at"`
	Tables     []Table   `json:"tables"`
}

// Fingerprint computes a stable hash over the snapshot structure.
// Tables and columns are serialized in a canonical order so that two
// snapshots of the same schema always produce the same fingerprint,
// regardless of the order information_schema returned rows in.
// Capture time and database name are excluded.
func (s *Snapshot) Fingerprint() string {
	tables := make([]Table, len(s.Tables))
	copy(tables, s.Tables)
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].QualifiedName() < tables[j].QualifiedName()
	})

	var builder strings.Builder
	for _, table := range tables {
		builder.WriteString(table.QualifiedName())
		builder.WriteString("{")
		for _, col := range table.Columns {
			fmt.Fprintf(&builder, "%s:%s:%t:%s;", col.Name, col.DataType, col.Nullable, col.Default)
		}
		if len(table.PrimaryKey) > 0 {
			builder.WriteString("pk=")
			builder.WriteString(strings.Join(table.PrimaryKey, ","))
		}
		builder.WriteString("}")
	}

	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}

// TableCount returns the number of tables in the snapshot.
func (s *Snapshot) TableCount() int {
	return len(s.Tables)
}

// ColumnCount returns the total number of columns across all tables.
func (s *Snapshot) ColumnCount() int {
	total := 0
	for _, table := range s.Tables {
		total += len(table.Columns)
	}
	return total
}
