// Package instruction defines the descriptive records the core emits instead
// of performing external effects. The caller executes each instruction against
// the real collaborator (state store, note system, shell) in the order given.
package instruction

// Tool identifiers for the external collaborators.
const (
	ToolStateSet       = "state_set"
	ToolStateGet       = "state_get"
	ToolNote           = "obsidian_note"
	ToolExecuteCommand = "execute_command"
)

// State store categories and well-known keys.
const (
	CategoryProject = "project"
	CategorySystem  = "system"
	CategoryConfig  = "config"

	KeyLastSessionContext = "last_session_context"
)

// Instruction describes one external effect to perform.
type Instruction struct {
	Tool        string         `json:"tool"`
	Args        map[string]any `json:"args"`
	Description string         `json:"description"`
}

// StateSet describes a write of value under (category, key).
func StateSet(category, key string, value any) Instruction {
	return Instruction{
		Tool: ToolStateSet,
		Args: map[string]any{
			"category": category,
			"key":      key,
			"value":    value,
		},
		Description: "Save " + category + "/" + key + " to the state store",
	}
}

// StateGet describes a read of (category, key).
func StateGet(category, key string) Instruction {
	return Instruction{
		Tool: ToolStateGet,
		Args: map[string]any{
			"category": category,
			"key":      key,
		},
		Description: "Load " + category + "/" + key + " from the state store",
	}
}

// NoteCreate describes creating a note in the note-taking system.
func NoteCreate(title, content, folder string) Instruction {
	return Instruction{
		Tool: ToolNote,
		Args: map[string]any{
			"action":  "create",
			"title":   title,
			"content": content,
			"folder":  folder,
		},
		Description: "Create note \"" + title + "\" in " + folder,
	}
}

// ExecuteCommand describes running a shell command or script.
func ExecuteCommand(code, description, language string) Instruction {
	return Instruction{
		Tool: ToolExecuteCommand,
		Args: map[string]any{
			"code":        code,
			"description": description,
			"language":    language,
		},
		Description: description,
	}
}
