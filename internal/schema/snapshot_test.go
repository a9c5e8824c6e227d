// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schema

import (
	"testing"
	"time"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Database:   "appdb",
		CapturedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Tables: []Table{
			{
				Schema: "public",
				Name:   "users",
				Columns: []Column{
					{Name: "id", DataType: "bigint", Nullable: false, Default: "nextval('users_id_seq'::regclass)"},
					{Name: "email", DataType: "text", Nullable: false},
					{Name: "created_at", DataType: "timestamp with time zone", Nullable: true, Default: "now()"},
				},
				PrimaryKey: []string{"id"},
			},
			{
				Schema: "public",
				Name:   "orders",
				Columns: []Column{
					{Name: "id", DataType: "bigint", Nullable: false},
					{Name: "user_id", DataType: "bigint", Nullable: false},
				},
				PrimaryKey: []string{"id"},
			},
		},
	}
}

func TestFingerprintStable(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot()

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical snapshots produced different fingerprints")
	}
}

func TestFingerprintIgnoresTableOrder(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot()
	b.Tables[0], b.Tables[1] = b.Tables[1], b.Tables[0]

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint changed when only table order changed")
	}
}

func TestFingerprintIgnoresCaptureMetadata(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot()
	b.Database = "other"
	b.CapturedAt = b.CapturedAt.Add(24 * time.Hour)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint changed when only capture metadata changed")
	}
}

func TestFingerprintDetectsChanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{
			name: "column type changed",
			mutate: func(s *Snapshot) {
				s.Tables[0].Columns[1].DataType = "varchar"
			},
		},
		{
			name: "column dropped",
			mutate: func(s *Snapshot) {
				s.Tables[0].Columns = s.Tables[0].Columns[:2]
			},
		},
		{
			name: "column added",
			mutate: func(s *Snapshot) {
				s.Tables[1].Columns = append(s.Tables[1].Columns, Column{Name: "total", DataType: "numeric"})
			},
		},
		{
			name: "nullability changed",
			mutate: func(s *Snapshot) {
				s.Tables[0].Columns[2].Nullable = false
			},
		},
		{
			name: "default changed",
			mutate: func(s *Snapshot) {
				s.Tables[0].Columns[2].Default = ""
			},
		},
		{
			name: "primary key changed",
			mutate: func(s *Snapshot) {
				s.Tables[1].PrimaryKey = []string{"id", "user_id"}
			},
		},
		{
			name: "table dropped",
			mutate: func(s *Snapshot) {
				s.Tables = s.Tables[:1]
			},
		},
	}

	base := sampleSnapshot().Fingerprint()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := sampleSnapshot()
			tt.mutate(snap)
			if snap.Fingerprint() == base {
				t.Error("fingerprint did not change after schema change")
			}
		})
	}
}

func TestFilterSchemas(t *testing.T) {
	snap := sampleSnapshot()
	snap.Tables = append(snap.Tables, Table{Schema: "audit", Name: "events"})

	filtered := FilterSchemas(snap, []string{"audit"})
	if len(filtered.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(filtered.Tables))
	}
	if filtered.Tables[0].QualifiedName() != "audit.events" {
		t.Errorf("unexpected table %s", filtered.Tables[0].QualifiedName())
	}

	all := FilterSchemas(snap, nil)
	if len(all.Tables) != 3 {
		t.Errorf("empty filter should keep all tables, got %d", len(all.Tables))
	}
}

func TestCounts(t *testing.T) {
	snap := sampleSnapshot()
	if snap.TableCount() != 2 {
		t.Errorf("TableCount = %d, want 2", snap.TableCount())
	}
	if snap.ColumnCount() != 5 {
		t.Errorf("ColumnCount = %d, want 5", snap.ColumnCount())
	}
}
