package workflow

import (
	"fmt"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
)

// UpdateType tags the kind of mutation an update proposal carries.
type UpdateType string

const (
	UpdateProgress  UpdateType = "progress"
	UpdateDecision  UpdateType = "decision"
	UpdateMilestone UpdateType = "milestone"
	UpdateInsight   UpdateType = "insight"
)

// ParseUpdateType validates an update type tag.
func ParseUpdateType(s string) (UpdateType, error) {
	switch UpdateType(s) {
	case UpdateProgress, UpdateDecision, UpdateMilestone, UpdateInsight:
		return UpdateType(s), nil
	default:
		return "", fmt.Errorf("unknown update type %q", s)
	}
}

// Update is the closed set of mutations the workflow can stage. Each variant
// applies itself to a working copy and reports what it changed, one short
// description per field touched.
type Update interface {
	Type() UpdateType
	apply(rec *project.Record, now time.Time) []string
}

// ProgressUpdate records completed and newly discovered tasks.
type ProgressUpdate struct {
	CompletedTasks []string `json:"completedTasks,omitempty"`
	NewTasks       []string `json:"newTasks,omitempty"`
	CurrentFocus   string   `json:"currentFocus,omitempty"`
}

func (u ProgressUpdate) Type() UpdateType { return UpdateProgress }

func (u ProgressUpdate) apply(rec *project.Record, now time.Time) []string {
	var summary []string

	completed := 0
	for _, task := range u.CompletedTasks {
		remaining := rec.OpenTasks[:0]
		for _, open := range rec.OpenTasks {
			if open != task {
				remaining = append(remaining, open)
			}
		}
		rec.OpenTasks = remaining
		if !rec.HasCompletedTask(task) {
			rec.CompletedTasks = append(rec.CompletedTasks, task)
			completed++
		}
	}
	if completed > 0 {
		summary = append(summary, fmt.Sprintf("completed %d task(s)", completed))
	}

	if len(u.NewTasks) > 0 {
		rec.OpenTasks = append(rec.OpenTasks, u.NewTasks...)
		summary = append(summary, fmt.Sprintf("added %d new task(s)", len(u.NewTasks)))
	}

	if u.CurrentFocus != "" {
		rec.CurrentFocus = u.CurrentFocus
		summary = append(summary, fmt.Sprintf("focus set to %q", u.CurrentFocus))
	}

	if len(summary) == 0 {
		summary = append(summary, "no changes")
	}
	return summary
}

// DecisionUpdate appends an immutable decision record.
type DecisionUpdate struct {
	Decision  string `json:"decision"`
	Rationale string `json:"rationale,omitempty"`
	Impact    string `json:"impact,omitempty"`
}

func (u DecisionUpdate) Type() UpdateType { return UpdateDecision }

func (u DecisionUpdate) apply(rec *project.Record, now time.Time) []string {
	rationale := u.Rationale
	if rationale == "" {
		rationale = "No rationale provided"
	}
	rec.Decisions = append(rec.Decisions, project.Decision{
		At:        now,
		Decision:  u.Decision,
		Rationale: rationale,
		Impact:    u.Impact,
	})
	return []string{fmt.Sprintf("recorded decision: %s", u.Decision)}
}

// MilestoneUpdate appends an immutable milestone record.
type MilestoneUpdate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Artifacts   []string `json:"artifacts,omitempty"`
}

func (u MilestoneUpdate) Type() UpdateType { return UpdateMilestone }

func (u MilestoneUpdate) apply(rec *project.Record, now time.Time) []string {
	rec.Milestones = append(rec.Milestones, project.Milestone{
		At:          now,
		Title:       u.Title,
		Description: u.Description,
		Artifacts:   append([]string(nil), u.Artifacts...),
	})
	return []string{fmt.Sprintf("reached milestone: %s", u.Title)}
}

// InsightUpdate appends a freeform insight under metadata.insights, creating
// the path if absent.
type InsightUpdate struct {
	Insight string `json:"insight"`
	Source  string `json:"source,omitempty"`
}

func (u InsightUpdate) Type() UpdateType { return UpdateInsight }

func (u InsightUpdate) apply(rec *project.Record, now time.Time) []string {
	if rec.Metadata == nil {
		rec.Metadata = map[string]any{}
	}
	insights, _ := rec.Metadata["insights"].([]any)
	entry := map[string]any{
		"at":      now,
		"insight": u.Insight,
	}
	if u.Source != "" {
		entry["source"] = u.Source
	}
	rec.Metadata["insights"] = append(insights, entry)
	return []string{fmt.Sprintf("captured insight: %s", truncate(u.Insight, 60))}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
