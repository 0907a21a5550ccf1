package template

import (
	"fmt"
	"strings"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/instruction"
)

// scaffoldDirs lists the directory skeleton created for each template kind.
var scaffoldDirs = map[Kind][]string{
	KindSoftware: {"src", "tests", "docs"},
	KindResearch: {"notes", "sources", "drafts"},
	KindML:       {"data", "notebooks", "models", "reports"},
	KindWriting:  {"drafts", "research", "final"},
	KindCustom:   {"notes"},
}

// Scaffold returns the instructions needed to lay down an on-disk workspace
// for a new project. Nothing is executed here; the caller runs the commands.
func Scaffold(kind Kind, name string) []instruction.Instruction {
	dirs, ok := scaffoldDirs[kind]
	if !ok {
		dirs = scaffoldDirs[KindCustom]
	}

	slug := Slug(name)
	paths := make([]string, len(dirs))
	for i, d := range dirs {
		paths[i] = fmt.Sprintf("%s/%s", slug, d)
	}

	instructions := []instruction.Instruction{
		instruction.ExecuteCommand(
			fmt.Sprintf("mkdir -p %s", strings.Join(paths, " ")),
			fmt.Sprintf("Create %s workspace layout for %q", kind, name),
			"bash",
		),
	}

	if kind == KindSoftware {
		instructions = append(instructions, instruction.ExecuteCommand(
			fmt.Sprintf("cd %s && git init", slug),
			fmt.Sprintf("Initialize git repository for %q", name),
			"bash",
		))
	}

	instructions = append(instructions, instruction.NoteCreate(
		name,
		fmt.Sprintf("# %s\n\nTemplate: %s\n", name, kind),
		"projects",
	))

	return instructions
}

// Slug converts a project name into a filesystem-safe directory name.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}
