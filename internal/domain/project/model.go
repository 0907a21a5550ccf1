package project

import "time"

// Status represents the lifecycle status of a project
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// Record is the structured state tracked for one unit of work. The project
// name is the identity key; the external store addresses it as
// (category="project", key=name).
type Record struct {
	Name           string         `json:"name"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastModified   time.Time      `json:"lastModified"`
	Summary        string         `json:"summary,omitempty"`
	CurrentFocus   string         `json:"currentFocus,omitempty"`
	OpenTasks      []string       `json:"openTasks"`
	CompletedTasks []string       `json:"completedTasks"`
	Decisions      []Decision     `json:"decisions"`
	Milestones     []Milestone    `json:"milestones"`
	KeyFiles       []string       `json:"keyFiles,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Decision captures a point-in-time choice. Immutable once appended.
type Decision struct {
	At        time.Time `json:"at"`
	Decision  string    `json:"decision"`
	Rationale string    `json:"rationale"`
	Impact    string    `json:"impact,omitempty"`
}

// Milestone marks a completed stage of work. Immutable once appended.
type Milestone struct {
	At          time.Time `json:"at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Artifacts   []string  `json:"artifacts,omitempty"`
}

// SessionContext is a compact rolling summary of the most recently active
// project, regenerated wholesale on every confirmed update. The external
// store addresses it as (category="system", key="last_session_context").
type SessionContext struct {
	At               time.Time  `json:"at"`
	LastProject      string     `json:"lastProject"`
	LastActivity     string     `json:"lastActivity"`
	ConversationMode string     `json:"conversationMode"`
	RecentTasks      []string   `json:"recentTasks"`
	RecentDecisions  []Decision `json:"recentDecisions"`
}

// HasOpenTask reports whether the task is currently open.
func (r *Record) HasOpenTask(task string) bool {
	for _, t := range r.OpenTasks {
		if t == task {
			return true
		}
	}
	return false
}

// HasCompletedTask reports whether the task has been completed.
func (r *Record) HasCompletedTask(task string) bool {
	for _, t := range r.CompletedTasks {
		if t == task {
			return true
		}
	}
	return false
}
