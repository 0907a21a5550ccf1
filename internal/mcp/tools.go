package mcp

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Intent
		{
			Name:        "classify_intent",
			Description: "Classify a user message into a conversation mode (project_management, research, analysis, etc.) with a confidence score",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"message": map[string]any{
						"type":        "string",
						"description": "The user message to classify",
					},
					"last_project": map[string]any{
						"type":        "string",
						"description": "Name of the last active project, if any (improves continuation detection)",
					},
					"history": map[string]any{
						"type":        "array",
						"description": "Recent conversation messages for context",
						"items":       map[string]any{"type": "string"},
					},
				},
				"required": []string{"message"},
			},
		},

		// Project lifecycle
		{
			Name:        "switch_project",
			Description: "Activate a project by name, pushing the current project onto the stack. Optionally create it from a template if missing",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Project name",
					},
					"create_if_missing": map[string]any{
						"type":        "boolean",
						"description": "Create the project from a template when it does not exist",
					},
					"template": map[string]any{
						"type":        "string",
						"description": "Template to seed a new project from (unknown values fall back to custom)",
						"enum":        []string{"software", "research", "ml", "writing", "custom"},
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "return_to_previous",
			Description: "Pop the project stack and restore the previous project exactly as it was when switched away from",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "load_project",
			Description: "Load a project record by name without changing the active project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Project name",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "get_context",
			Description: "Get the current working context: active project, session summary, conversation mode, and project stack",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Update workflow
		{
			Name:        "propose_update",
			Description: "Stage a project update (progress, decision, milestone, or insight) for confirmation. Nothing is committed until confirm_update",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"description": "Update type",
						"enum":        []string{"progress", "decision", "milestone", "insight"},
					},
					"update": map[string]any{
						"type":        "object",
						"description": "Update payload. progress: completedTasks[], newTasks[], currentFocus. decision: decision, rationale, impact. milestone: title, description, artifacts[]. insight: insight, source",
					},
					"project": map[string]any{
						"type":        "string",
						"description": "Target project name (omit for the active project)",
					},
				},
				"required": []string{"type", "update"},
			},
		},
		{
			Name:        "confirm_update",
			Description: "Commit a staged update, optionally with last-minute modifications. Returns the committed project, the refreshed session context, and any persistence instructions",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"proposal_id": map[string]any{
						"type":        "string",
						"description": "ID returned by propose_update",
					},
					"modifications": map[string]any{
						"type":        "object",
						"description": "Optional adjustments applied before commit",
						"properties": map[string]any{
							"status": map[string]any{
								"type": "string",
								"enum": []string{"active", "paused", "complete", "archived"},
							},
							"summary":      map[string]any{"type": "string"},
							"currentFocus": map[string]any{"type": "string"},
							"metadata":     map[string]any{"type": "object"},
						},
					},
				},
				"required": []string{"proposal_id"},
			},
		},
		{
			Name:        "reject_update",
			Description: "Discard a staged update without committing it",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"proposal_id": map[string]any{
						"type":        "string",
						"description": "ID returned by propose_update",
					},
				},
				"required": []string{"proposal_id"},
			},
		},

		// Templates
		{
			Name:        "list_templates",
			Description: "List the built-in project templates and the skeleton each one seeds",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "generate_scaffold",
			Description: "Generate the filesystem scaffolding instructions for a project without creating the project record",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"template": map[string]any{
						"type":        "string",
						"description": "Template kind",
						"enum":        []string{"software", "research", "ml", "writing", "custom"},
					},
					"name": map[string]any{
						"type":        "string",
						"description": "Project name (used to derive the directory slug)",
					},
				},
				"required": []string{"template", "name"},
			},
		},
	}
}
