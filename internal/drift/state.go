// Package drift provides state management and coordination for schema drift scans.
package drift

import (
	"sync"
)

// ScanState tracks scan progress for all objects in the current session.
// It maintains information about which objects are being checked, clean,
// drifted or failed.
type ScanState struct {
	// Active contains objects currently being compared
	Active map[string]struct{}
	// Clean contains objects that matched the baseline
	Clean map[string]struct{}
	// Drifted maps object names to their findings
	Drifted map[string][]Finding
	// Failed maps object names to failure reasons
	Failed map[string]string
	// Order preserves the sequence in which objects were started
	Order []string
	// Expected contains the set of objects the scan plan covers
	Expected map[string]struct{}
	// mu protects concurrent access to all fields
	mu sync.Mutex
}

// NewScanState creates a new ScanState with initialized maps.
func NewScanState() *ScanState {
	return &ScanState{
		Active:   make(map[string]struct{}),
		Clean:    make(map[string]struct{}),
		Drifted:  make(map[string][]Finding),
		Failed:   make(map[string]string),
		Expected: make(map[string]struct{}),
	}
}

// Reset clears all scan state, preparing for a new session.
func (ss *ScanState) Reset() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.Active = make(map[string]struct{})
	ss.Clean = make(map[string]struct{})
	ss.Drifted = make(map[string][]Finding)
	ss.Failed = make(map[string]string)
	ss.Order = nil
	ss.Expected = make(map[string]struct{})
}

// AddExpected marks objects as covered by the scan plan.
func (ss *ScanState) AddExpected(names []string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for _, name := range names {
		ss.Expected[name] = struct{}{}
	}
}

// StartObject marks an object as being compared.
// If the object wasn't in the plan, it's automatically added.
func (ss *ScanState) StartObject(name string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, exists := ss.Active[name]; !exists {
		ss.Order = append(ss.Order, name)
	}
	ss.Active[name] = struct{}{}
	if _, exists := ss.Expected[name]; !exists {
		ss.Expected[name] = struct{}{}
	}
}

// MarkClean records that an object matched the baseline.
func (ss *ScanState) MarkClean(name string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.Active, name)
	ss.Clean[name] = struct{}{}
}

// MarkDrifted records findings for an object that diverged from the baseline.
func (ss *ScanState) MarkDrifted(name string, findings []Finding) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.Active, name)
	ss.Drifted[name] = append(ss.Drifted[name], findings...)
}

// FailObject marks an object comparison as failed with a reason.
func (ss *ScanState) FailObject(name, reason string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.Active, name)
	ss.Failed[name] = reason
}

// SettleAllActive marks all still-active objects as clean.
// Used when the backend signals scan completion but some object
// statuses never arrived.
func (ss *ScanState) SettleAllActive() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for name := range ss.Active {
		delete(ss.Active, name)
		ss.Clean[name] = struct{}{}
		if _, exists := ss.Expected[name]; !exists {
			ss.Expected[name] = struct{}{}
		}
	}
}

// ExpectedCount returns the total number of planned objects.
func (ss *ScanState) ExpectedCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Expected)
}

// CleanCount returns the number of objects that matched the baseline.
func (ss *ScanState) CleanCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Clean)
}

// DriftedCount returns the number of objects with findings.
func (ss *ScanState) DriftedCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Drifted)
}

// FailedCount returns the number of failed object comparisons.
func (ss *ScanState) FailedCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Failed)
}

// HasDrift returns true if any object diverged from the baseline.
func (ss *ScanState) HasDrift() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Drifted) > 0
}

// HasFailures returns true if any object comparison failed.
func (ss *ScanState) HasFailures() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.Failed) > 0
}

// IsSettled returns true if every planned object has a final status.
func (ss *ScanState) IsSettled() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	expected := len(ss.Expected)
	return expected > 0 && len(ss.Clean)+len(ss.Drifted)+len(ss.Failed) == expected
}

// AllFindings returns every finding in object start order.
func (ss *ScanState) AllFindings() []Finding {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var out []Finding
	for _, name := range ss.Order {
		out = append(out, ss.Drifted[name]...)
	}
	// Objects never started but reported drifted
	for name, findings := range ss.Drifted {
		started := false
		for _, n := range ss.Order {
			if n == name {
				started = true
				break
			}
		}
		if !started {
			out = append(out, findings...)
		}
	}
	return out
}
