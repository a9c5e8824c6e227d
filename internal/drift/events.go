// Package drift defines event structures and rendering utilities used to display
// drift-scan progress in the CLI while bridging between the local database
// inspector and the backend service. It provides types for representing the
// stages of a scan and utilities for rendering per-object results to the
// terminal.
//
// The package supports various event types including scan planning, per-object
// status changes and drift findings, enabling rich terminal UI feedback while
// a schema comparison runs on the backend.
package drift

// EventType enumerates known scan event kinds.
type EventType string

const (
	// EventBridgeLog carries a line of bridge-side log output.
	EventBridgeLog EventType = "bridge_log"
	// EventScanState describes a high-level scan state change.
	EventScanState EventType = "scan_state"
	// EventScanPlan provides the objects the backend will compare.
	EventScanPlan EventType = "scan_plan"
	// EventObjectStatus updates a specific object status within the scan.
	EventObjectStatus EventType = "object_status"
	// EventFinding reports a single detected schema change.
	EventFinding EventType = "finding"
)

// Finding describes one detected schema change on an object.
type Finding struct {
	Object   string `json:"object"`
	Change   string `json:"change"`
	Detail   string `json:"detail,omitempty"`
	Severity string `json:"severity,omitempty"` // info|warning|breaking
}

// Event is a generic container for scan UI events.
// Only a subset of fields is set depending on Type.
type Event struct {
	Type EventType `json:"type"`

	// Common textual message (e.g., bridge log line or state label)
	Message string `json:"message,omitempty"`

	// Scan plan
	Objects []string `json:"objects,omitempty"`

	// Object status
	ObjectName  string `json:"object_name,omitempty"`
	ObjectState string `json:"object_state,omitempty"` // pending|checking|clean|drifted|error

	// Findings for a drifted object
	Findings []Finding `json:"findings,omitempty"`
}
