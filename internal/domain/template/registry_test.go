package template_test

import (
	"testing"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/instruction"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/template"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknownKind(t *testing.T) {
	reg := template.NewRegistry()
	_, ok := reg.Get(template.Kind("quantum"))
	require.False(t, ok)
}

func TestInstantiate_ML(t *testing.T) {
	reg := template.NewRegistry()
	rec := reg.Instantiate(template.KindML, "foo", nil)

	require.Equal(t, "foo", rec.Name)
	require.Equal(t, project.StatusActive, rec.Status)
	require.Contains(t, rec.Metadata, "problemType")
	require.Equal(t, "", rec.Metadata["problemType"])
	require.Equal(t, []string{
		"Define problem statement",
		"Collect and explore dataset",
		"Establish baseline model",
	}, rec.OpenTasks)
	require.False(t, rec.CreatedAt.IsZero())
	require.Empty(t, rec.CompletedTasks)
}

func TestInstantiate_NoMetadataAliasing(t *testing.T) {
	reg := template.NewRegistry()
	a := reg.Instantiate(template.KindML, "a", nil)
	b := reg.Instantiate(template.KindML, "b", nil)

	a.Metadata["problemType"] = "classification"
	a.Metadata["metrics"].(map[string]any)["f1"] = 0.9

	require.Equal(t, "", b.Metadata["problemType"])
	require.Empty(t, b.Metadata["metrics"].(map[string]any))
}

func TestInstantiate_Overrides(t *testing.T) {
	reg := template.NewRegistry()
	rec := reg.Instantiate(template.KindSoftware, "svc", &template.Overrides{
		Status:       project.StatusPaused,
		Summary:      "billing service",
		CurrentFocus: "schema design",
		Metadata:     map[string]any{"language": "go"},
	})

	require.Equal(t, project.StatusPaused, rec.Status)
	require.Equal(t, "billing service", rec.Summary)
	require.Equal(t, "schema design", rec.CurrentFocus)
	require.Equal(t, "go", rec.Metadata["language"])
	// untouched skeleton keys survive the merge
	require.Contains(t, rec.Metadata, "framework")
}

func TestInstantiate_UnknownKindFallsBackToCustom(t *testing.T) {
	reg := template.NewRegistry()
	rec := reg.Instantiate(template.Kind("quantum"), "q", nil)
	require.Equal(t, project.StatusActive, rec.Status)
	require.Empty(t, rec.OpenTasks)
	require.Empty(t, rec.Metadata)
}

func TestScaffold_SoftwareIncludesGitInit(t *testing.T) {
	instructions := template.Scaffold(template.KindSoftware, "My Service")
	require.NotEmpty(t, instructions)

	var tools []string
	for _, ins := range instructions {
		tools = append(tools, ins.Tool)
	}
	require.Contains(t, tools, instruction.ToolExecuteCommand)
	require.Contains(t, tools, instruction.ToolNote)

	first := instructions[0]
	require.Equal(t, instruction.ToolExecuteCommand, first.Tool)
	require.Contains(t, first.Args["code"], "my-service/src")

	second := instructions[1]
	require.Contains(t, second.Args["code"], "git init")
}

func TestSlug(t *testing.T) {
	require.Equal(t, "my-service", template.Slug("My Service"))
	require.Equal(t, "project", template.Slug("!!!"))
}
