package drift

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

// Renderer renders scan events to console with docker-compose-like UI.
type Renderer struct {
	sectionShown bool
}

// NewRenderer creates a renderer instance.
func NewRenderer() *Renderer { return &Renderer{} }

// Render processes a single event.
func (r *Renderer) Render(ev Event) {
	switch ev.Type {
	case EventBridgeLog:
		// Suppressed to keep UI clean
	case EventScanState:
		// Suppressed to keep UI clean
	case EventScanPlan:
		r.ShowScanScope(ev.Objects)
	case EventObjectStatus:
		r.renderObjectStatus(ev.ObjectName, ev.ObjectState)
	case EventFinding:
		r.RenderFindings(ev.Findings)
	}
}

// ShowScanScope displays the objects the backend will compare.
func (r *Renderer) ShowScanScope(objects []string) {
	if r.sectionShown || len(objects) == 0 {
		return
	}
	r.sectionShown = true

	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Comparing against baseline"))
	items := make([]pterm.BulletListItem, len(objects))
	for i, o := range objects {
		items[i] = pterm.BulletListItem{Level: 0, Text: o}
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

func (r *Renderer) renderObjectStatus(name, state string) {
	switch state {
	case "clean":
		pterm.Println(pterm.FgGreen.Sprint("  ✓ ") + name)
	case "drifted":
		pterm.Println(pterm.FgYellow.Sprint("  ! ") + name)
	case "error":
		pterm.Println(pterm.FgRed.Sprint("  ✗ ") + name)
	}
}

// RenderFindings prints detected schema changes grouped under their objects.
func (r *Renderer) RenderFindings(findings []Finding) {
	for _, f := range findings {
		label := pterm.FgYellow.Sprint(f.Change)
		if f.Severity == "breaking" {
			label = pterm.FgRed.Sprint(f.Change)
		}
		line := "    " + label + "  " + f.Object
		if f.Detail != "" {
			line += "  " + pterm.FgGray.Sprint(f.Detail)
		}
		pterm.Println(line)
	}
}

// RenderSummary prints the final boxed summary for a finished scan.
func (r *Renderer) RenderSummary(state *ScanState, elapsed time.Duration) {
	pterm.Println()
	if state.HasDrift() {
		title := pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("Drift Detected")
		details := fmt.Sprintf("Duration: %s\nObjects drifted: %d of %d\nObjects clean: %d", elapsed, state.DriftedCount(), state.ExpectedCount(), state.CleanCount())
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
		return
	}
	if state.HasFailures() {
		title := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Scan Incomplete")
		details := fmt.Sprintf("Duration: %s\nFailed comparisons: %d of %d", elapsed, state.FailedCount(), state.ExpectedCount())
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
		return
	}
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("No Drift Detected")
	details := fmt.Sprintf("Duration: %s\nObjects checked: %d", elapsed, state.CleanCount())
	pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
}
