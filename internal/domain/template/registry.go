// Package template provides the built-in project templates used to seed new
// project records.
package template

import (
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
)

// Kind identifies a built-in template.
type Kind string

const (
	KindSoftware Kind = "software"
	KindResearch Kind = "research"
	KindML       Kind = "ml"
	KindWriting  Kind = "writing"
	KindCustom   Kind = "custom"
)

// Kinds lists the built-in template kinds.
func Kinds() []Kind {
	return []Kind{KindSoftware, KindResearch, KindML, KindWriting, KindCustom}
}

// Definition is the static schema a template seeds a project record from.
type Definition struct {
	Status    project.Status `json:"status"`
	Focus     string         `json:"focus,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	OpenTasks []string       `json:"open_tasks"`
}

// Overrides are caller-supplied adjustments applied at instantiation:
// top-level fields replace the template values, Metadata merges key by key.
type Overrides struct {
	Status       project.Status
	Summary      string
	CurrentFocus string
	Metadata     map[string]any
}

// Registry holds the built-in template definitions.
type Registry struct {
	defs map[Kind]Definition
}

// NewRegistry creates a registry populated with the built-in templates.
func NewRegistry() *Registry {
	return &Registry{defs: map[Kind]Definition{
		KindSoftware: {
			Status: project.StatusActive,
			Focus:  "Project setup",
			Metadata: map[string]any{
				"language":    "",
				"framework":   "",
				"repository":  "",
				"environment": "",
			},
			OpenTasks: []string{
				"Set up repository and tooling",
				"Define initial architecture",
				"Write first failing test",
			},
		},
		KindResearch: {
			Status: project.StatusActive,
			Focus:  "Framing the question",
			Metadata: map[string]any{
				"hypothesis":  "",
				"methodology": "",
				"sources":     []any{},
			},
			OpenTasks: []string{
				"State the research question",
				"Survey prior work",
				"Choose a methodology",
			},
		},
		KindML: {
			Status: project.StatusActive,
			Focus:  "Problem definition",
			Metadata: map[string]any{
				"problemType": "",
				"dataset":     "",
				"models":      []any{},
				"metrics":     map[string]any{},
			},
			OpenTasks: []string{
				"Define problem statement",
				"Collect and explore dataset",
				"Establish baseline model",
			},
		},
		KindWriting: {
			Status: project.StatusActive,
			Focus:  "Outline",
			Metadata: map[string]any{
				"genre":        "",
				"targetLength": "",
				"audience":     "",
			},
			OpenTasks: []string{
				"Draft outline",
				"Write first section",
			},
		},
		KindCustom: {
			Status:    project.StatusActive,
			Metadata:  map[string]any{},
			OpenTasks: nil,
		},
	}}
}

// Get returns the definition for a kind. Absence is a user error the caller
// decides how to handle, not a fatal condition.
func (r *Registry) Get(kind Kind) (Definition, bool) {
	def, ok := r.defs[kind]
	return def, ok
}

// Instantiate builds a new project record from a template. The metadata
// skeleton is deep-copied so instantiated projects never alias template
// state. Unknown kinds instantiate the custom shape.
func (r *Registry) Instantiate(kind Kind, name string, overrides *Overrides) *project.Record {
	def, ok := r.Get(kind)
	if !ok {
		def = r.defs[KindCustom]
	}

	now := time.Now()
	rec := &project.Record{
		Name:           name,
		Status:         def.Status,
		CreatedAt:      now,
		LastModified:   now,
		CurrentFocus:   def.Focus,
		OpenTasks:      append([]string(nil), def.OpenTasks...),
		CompletedTasks: []string{},
		Decisions:      []project.Decision{},
		Milestones:     []project.Milestone{},
		Metadata:       project.CloneMetadata(def.Metadata),
	}

	if overrides != nil {
		if overrides.Status != "" {
			rec.Status = overrides.Status
		}
		if overrides.Summary != "" {
			rec.Summary = overrides.Summary
		}
		if overrides.CurrentFocus != "" {
			rec.CurrentFocus = overrides.CurrentFocus
		}
		for k, v := range overrides.Metadata {
			rec.Metadata[k] = v
		}
	}

	return rec
}
