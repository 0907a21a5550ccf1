package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
)

// Proposal is a staged, not-yet-committed mutation to a project record. It
// lives in the manager's pending table until confirmed, rejected, or expired.
type Proposal struct {
	ID            string          `json:"id"`
	Type          UpdateType      `json:"type"`
	CreatedAt     time.Time       `json:"created_at"`
	ProjectName   string          `json:"project_name"`
	ChangeSummary []string        `json:"change_summary"`
	Proposed      *project.Record `json:"proposed"`
	Update        Update          `json:"-"`
	Prompt        string          `json:"prompt"`
}

// ProposalSummary is a lightweight view of a pending proposal.
type ProposalSummary struct {
	ID          string     `json:"id"`
	Type        UpdateType `json:"type"`
	ProjectName string     `json:"project_name"`
	CreatedAt   time.Time  `json:"created_at"`
	Summary     []string   `json:"summary"`
}

// Modifications are caller adjustments shallow-merged onto the proposed
// record at confirmation time.
type Modifications struct {
	Status       *project.Status `json:"status,omitempty"`
	Summary      *string         `json:"summary,omitempty"`
	CurrentFocus *string         `json:"currentFocus,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
}

func (m *Modifications) applyTo(rec *project.Record) {
	if m == nil {
		return
	}
	if m.Status != nil {
		rec.Status = *m.Status
	}
	if m.Summary != nil {
		rec.Summary = *m.Summary
	}
	if m.CurrentFocus != nil {
		rec.CurrentFocus = *m.CurrentFocus
	}
	if len(m.Metadata) > 0 {
		if rec.Metadata == nil {
			rec.Metadata = map[string]any{}
		}
		for k, v := range m.Metadata {
			rec.Metadata[k] = v
		}
	}
}

func buildPrompt(projectName string, summary []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Apply the following update to project %q?\n", projectName)
	for _, line := range summary {
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	b.WriteString("Confirm to commit, reject to discard.")
	return b.String()
}
