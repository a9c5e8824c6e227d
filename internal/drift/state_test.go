package drift

import (
	"testing"
)

func TestScanStateLifecycle(t *testing.T) {
	ss := NewScanState()
	ss.AddExpected([]string{"public.users", "public.orders", "public.items"})

	if ss.ExpectedCount() != 3 {
		t.Fatalf("ExpectedCount = %d, want 3", ss.ExpectedCount())
	}
	if ss.IsSettled() {
		t.Error("state settled before any object finished")
	}

	ss.StartObject("public.users")
	ss.MarkClean("public.users")

	ss.StartObject("public.orders")
	ss.MarkDrifted("public.orders", []Finding{
		{Object: "public.orders", Change: "column_added", Detail: "total numeric"},
	})

	ss.StartObject("public.items")
	ss.FailObject("public.items", "comparison timeout")

	if !ss.IsSettled() {
		t.Error("state not settled after all objects finished")
	}
	if ss.CleanCount() != 1 {
		t.Errorf("CleanCount = %d, want 1", ss.CleanCount())
	}
	if !ss.HasDrift() {
		t.Error("HasDrift = false, want true")
	}
	if !ss.HasFailures() {
		t.Error("HasFailures = false, want true")
	}
}

func TestStartObjectAddsToExpected(t *testing.T) {
	ss := NewScanState()
	ss.StartObject("public.surprise")

	if ss.ExpectedCount() != 1 {
		t.Errorf("ExpectedCount = %d, want 1", ss.ExpectedCount())
	}
}

func TestSettleAllActive(t *testing.T) {
	ss := NewScanState()
	ss.AddExpected([]string{"a", "b"})
	ss.StartObject("a")
	ss.StartObject("b")
	ss.MarkDrifted("b", []Finding{{Object: "b", Change: "table_dropped"}})

	ss.SettleAllActive()

	if !ss.IsSettled() {
		t.Error("state not settled after SettleAllActive")
	}
	if ss.CleanCount() != 1 {
		t.Errorf("CleanCount = %d, want 1", ss.CleanCount())
	}
	if ss.DriftedCount() != 1 {
		t.Errorf("DriftedCount = %d, want 1", ss.DriftedCount())
	}
}

func TestAllFindingsPreservesStartOrder(t *testing.T) {
	ss := NewScanState()
	ss.StartObject("first")
	ss.StartObject("second")
	ss.MarkDrifted("second", []Finding{{Object: "second", Change: "column_dropped"}})
	ss.MarkDrifted("first", []Finding{{Object: "first", Change: "type_changed"}})

	findings := ss.AllFindings()
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[0].Object != "first" || findings[1].Object != "second" {
		t.Errorf("findings out of order: %v", findings)
	}
}

func TestReset(t *testing.T) {
	ss := NewScanState()
	ss.AddExpected([]string{"a"})
	ss.StartObject("a")
	ss.MarkClean("a")

	ss.Reset()

	if ss.ExpectedCount() != 0 || ss.CleanCount() != 0 || len(ss.Order) != 0 {
		t.Error("Reset did not clear all state")
	}
}

func TestExtractObjectsAndFingerprint(t *testing.T) {
	tests := []struct {
		name            string
		payload         string
		wantObjects     int
		wantFingerprint string
	}{
		{
			name:            "top level objects",
			payload:         `{"objects": ["a", "b"], "baseline_fingerprint": "abc123"}`,
			wantObjects:     2,
			wantFingerprint: "abc123",
		},
		{
			name:        "nested under plan",
			payload:     `{"plan": {"objects": ["a"]}}`,
			wantObjects: 1,
		},
		{
			name:        "duplicates removed",
			payload:     `{"objects": ["a", "a"], "scope": {"objects": ["a", "b"]}}`,
			wantObjects: 2,
		},
		{
			name:            "short fingerprint key",
			payload:         `{"fingerprint": "def456"}`,
			wantFingerprint: "def456",
		},
		{
			name:    "invalid json",
			payload: `not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, fingerprint := ExtractObjectsAndFingerprint(tt.payload)
			if len(objects) != tt.wantObjects {
				t.Errorf("got %d objects, want %d", len(objects), tt.wantObjects)
			}
			if fingerprint != tt.wantFingerprint {
				t.Errorf("fingerprint = %q, want %q", fingerprint, tt.wantFingerprint)
			}
		})
	}
}

func TestParseFindings(t *testing.T) {
	name, findings := ParseFindings(`{"name": "public.users", "findings": [{"object": "public.users", "change": "column_added", "severity": "warning"}]}`)
	if name != "public.users" {
		t.Errorf("name = %q, want public.users", name)
	}
	if len(findings) != 1 || findings[0].Change != "column_added" {
		t.Errorf("unexpected findings: %v", findings)
	}
}
