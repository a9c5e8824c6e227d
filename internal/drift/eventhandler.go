package drift

import (
	"context"
	"encoding/json"
	"fmt"

	"driftwatch/cli/internal/bridge/model"
)

// BackendEventType represents the type of event from the backend.
type BackendEventType string

const (
	BackendEventScanAccepted  BackendEventType = "scan_accepted"
	BackendEventBaselineSaved BackendEventType = "baseline_saved"
	BackendEventSessionReady  BackendEventType = "session_ready"
	BackendEventObjectStarted BackendEventType = "object_started"
	BackendEventObjectClean   BackendEventType = "object_clean"
	BackendEventObjectDrifted BackendEventType = "object_drifted"
	BackendEventObjectFailed  BackendEventType = "object_failed"
	BackendEventScanCompleted BackendEventType = "scan_completed"
	BackendEventStreamClosed  BackendEventType = "stream_closed"
	BackendEventStreamError   BackendEventType = "stream_error"
)

// ResponseSender is a function that sends detail responses back to the backend.
type ResponseSender func(ctx context.Context, resp model.DetailResponse) error

// ScanAcceptedPayload represents the payload for scan_accepted events.
type ScanAcceptedPayload struct {
	BaselineFingerprint string   `json:"baseline_fingerprint"`
	Objects             []string `json:"objects"`
}

// ObjectStartedPayload represents the payload for object_started events.
type ObjectStartedPayload struct {
	Name string `json:"name"`
}

// ObjectCleanPayload represents the payload for object_clean events.
type ObjectCleanPayload struct {
	Name string `json:"name"`
}

// ObjectDriftedPayload represents the payload for object_drifted events.
type ObjectDriftedPayload struct {
	Name     string    `json:"name"`
	Findings []Finding `json:"findings"`
}

// ObjectFailedPayload represents the payload for object_failed events.
type ObjectFailedPayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ScanCompletedPayload represents the payload for scan_completed events.
type ScanCompletedPayload struct {
	Drifted int `json:"drifted"`
	Clean   int `json:"clean"`
	Failed  int `json:"failed"`
}

// ExtractObjectsAndFingerprint attempts to parse object names and the
// baseline fingerprint from a flexible JSON payload. It supports several
// common shapes to be resilient to backend changes.
func ExtractObjectsAndFingerprint(jsonStr string) ([]string, string) {
	var top map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &top); err != nil {
		return nil, ""
	}

	collectObjects := func(node any) (out []string) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		if v, ok := m["objects"]; ok {
			if arr, ok := v.([]any); ok {
				for _, e := range arr {
					if s, ok := e.(string); ok && s != "" {
						out = append(out, s)
					}
				}
			}
		}
		return out
	}

	var objects []string
	objects = append(objects, collectObjects(top)...)
	for _, key := range []string{"plan", "scope", "data"} {
		if v, ok := top[key]; ok {
			objects = append(objects, collectObjects(v)...)
		}
	}

	// Deduplicate objects
	if len(objects) > 1 {
		seen := make(map[string]struct{})
		var uniq []string
		for _, o := range objects {
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			uniq = append(uniq, o)
		}
		objects = uniq
	}

	fingerprint := ""
	for _, key := range []string{"baseline_fingerprint", "fingerprint"} {
		if v, ok := top[key]; ok {
			if s, ok2 := v.(string); ok2 && s != "" {
				fingerprint = s
				break
			}
		}
	}

	return objects, fingerprint
}

// ParseFindings extracts findings from an object_drifted payload.
func ParseFindings(jsonStr string) (string, []Finding) {
	var payload ObjectDriftedPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return "", nil
	}
	return payload.Name, payload.Findings
}

// SendObjectDetail serializes an object description and sends it back to
// the backend in response to a detail request.
func SendObjectDetail(ctx context.Context, sender ResponseSender, requestID string, detail any) error {
	b, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal object detail: %w", err)
	}

	return sender(ctx, model.DetailResponse{
		RequestID:  requestID,
		Success:    true,
		ResultJSON: string(b),
	})
}

// SendDetailError reports a failed detail request back to the backend.
func SendDetailError(ctx context.Context, sender ResponseSender, requestID string, reason string) error {
	b, err := json.Marshal(map[string]string{"error": reason})
	if err != nil {
		return fmt.Errorf("failed to marshal error detail: %w", err)
	}

	return sender(ctx, model.DetailResponse{
		RequestID:  requestID,
		Success:    false,
		ResultJSON: string(b),
	})
}
