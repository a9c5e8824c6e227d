// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schema

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "driftwatch/cli/internal/errors"
)

// Inspector reads schema metadata from a PostgreSQL database.
// It queries information_schema to gather tables, columns and primary
// keys, and caches the last snapshot to avoid repeated roundtrips when
// several commands inspect the same database in one process.
type Inspector struct {
	// pool is the connection pool for executing metadata queries
	pool *pgxpool.Pool
	// cached is the last captured snapshot, nil until first capture
	cached *Snapshot
	// mu protects concurrent access to cached
	mu sync.RWMutex
}

// NewInspector creates an Inspector with the given connection pool.
func NewInspector(pool *pgxpool.Pool) *Inspector {
	return &Inspector{pool: pool}
}

// Snapshot captures the current schema of the connected database.
// System schemas (pg_catalog, information_schema) are excluded.
func (in *Inspector) Snapshot(ctx context.Context) (*Snapshot, error) {
	conn, err := in.pool.Acquire(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.SchemaInspectFailed, "failed to acquire connection", err)
	}
	defer conn.Release()

	snap := &Snapshot{
		Database:   in.pool.Config().ConnConfig.Database,
		CapturedAt: time.Now().UTC(),
	}

	tables, err := in.loadTables(ctx, conn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.SchemaInspectFailed, "failed to list tables", err)
	}

	for i := range tables {
		if err := in.loadColumns(ctx, conn, &tables[i]); err != nil {
			return nil, apperrors.Wrap(apperrors.SchemaInspectFailed, "failed to read columns for "+tables[i].QualifiedName(), err)
		}
		if err := in.loadPrimaryKey(ctx, conn, &tables[i]); err != nil {
			return nil, apperrors.Wrap(apperrors.SchemaInspectFailed, "failed to read primary key for "+tables[i].QualifiedName(), err)
		}
	}
	snap.Tables = tables

	in.mu.Lock()
	in.cached = snap
	in.mu.Unlock()

	return snap, nil
}

// Cached returns the last captured snapshot, or nil if none exists.
func (in *Inspector) Cached() *Snapshot {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cached
}

// ClearCache discards the cached snapshot.
func (in *Inspector) ClearCache() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.cached = nil
}

// loadTables lists user tables sorted by qualified name.
func (in *Inspector) loadTables(ctx context.Context, conn *pgxpool.Conn) ([]Table, error) {
	tableQuery := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`

	rows, err := conn.Query(ctx, tableQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// loadColumns populates the column list for a table in ordinal order.
func (in *Inspector) loadColumns(ctx context.Context, conn *pgxpool.Conn, table *Table) error {
	columnQuery := `
		SELECT column_name, data_type, is_nullable, COALESCE(column_default, '')
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := conn.Query(ctx, columnQuery, table.Schema, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default); err != nil {
			return err
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		table.Columns = append(table.Columns, col)
	}
	return rows.Err()
}

// loadPrimaryKey populates primary key column names in key order.
func (in *Inspector) loadPrimaryKey(ctx context.Context, conn *pgxpool.Conn, table *Table) error {
	pkQuery := `
		SELECT kc.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kc
		  ON tc.constraint_name = kc.constraint_name
		 AND tc.table_schema = kc.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		  AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kc.ordinal_position`

	rows, err := conn.Query(ctx, pkQuery, table.Schema, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return err
		}
		table.PrimaryKey = append(table.PrimaryKey, colName)
	}
	return rows.Err()
}

// FilterSchemas returns a copy of the snapshot containing only tables in
// the given schemas. An empty filter returns the snapshot unchanged.
func FilterSchemas(snap *Snapshot, schemas []string) *Snapshot {
	if len(schemas) == 0 {
		return snap
	}

	allowed := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}

	filtered := &Snapshot{
		Database:   snap.Database,
		CapturedAt: snap.CapturedAt,
	}
	for _, table := range snap.Tables {
		if allowed[strings.ToLower(table.Schema)] {
			filtered.Tables = append(filtered.Tables, table)
		}
	}
	sort.Slice(filtered.Tables, func(i, j int) bool {
		return filtered.Tables[i].QualifiedName() < filtered.Tables[j].QualifiedName()
	})
	return filtered
}
