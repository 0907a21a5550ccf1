package functional_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/template"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/workflow"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/mcp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// testSession wires an in-process server to a client over in-memory transports.
type testSession struct {
	session *sdkmcp.ClientSession
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()

	classifier := intent.NewClassifier(intent.DefaultConfidence(), intent.DefaultKeywords())
	handler := mcp.NewHandler(classifier, template.NewRegistry(), nil, workflow.DefaultConfig(), nil)
	server := mcp.NewServer(mcp.Config{Handler: handler})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		clientSession.Close()
		serverSession.Close()
		cancel()
	})

	return &testSession{session: clientSession}
}

func (s *testSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := s.callToolRaw(t, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, textOf(t, result))
	return json.RawMessage(textOf(t, result))
}

func (s *testSession) callToolRaw(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)
	return result
}

func textOf(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return textContent.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func TestFunctional_ToolDiscovery(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description, "tool %s should have description", tool.Name)
		require.NotNil(t, tool.InputSchema, "tool %s should have inputSchema", tool.Name)
	}
	for _, expected := range []string{
		"classify_intent", "switch_project", "return_to_previous", "load_project",
		"get_context", "propose_update", "confirm_update", "reject_update",
		"list_templates", "generate_scaffold",
	} {
		require.True(t, names[expected], "should have %s tool", expected)
	}
}

func TestFunctional_ClassifyIntent(t *testing.T) {
	s := newTestSession(t)

	resp := s.callTool(t, "classify_intent", map[string]any{
		"message": "switch to research mode",
	})

	var classification struct {
		Mode       string  `json:"mode"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(resp, &classification))
	require.Equal(t, "research", classification.Mode)
	require.InDelta(t, 0.95, classification.Confidence, 0.001)
}

func TestFunctional_ProjectLifecycle(t *testing.T) {
	s := newTestSession(t)

	created := s.callTool(t, "switch_project", map[string]any{
		"name":              "api-rewrite",
		"create_if_missing": true,
		"template":          "software",
	})
	var switched struct {
		Created bool `json:"created"`
		Project struct {
			Name      string   `json:"name"`
			OpenTasks []string `json:"openTasks"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(created, &switched))
	require.True(t, switched.Created)
	require.Equal(t, "api-rewrite", switched.Project.Name)
	require.NotEmpty(t, switched.Project.OpenTasks)

	contextResp := s.callTool(t, "get_context", nil)
	require.Contains(t, string(contextResp), "api-rewrite")

	loaded := s.callTool(t, "load_project", map[string]any{"name": "api-rewrite"})
	require.Contains(t, string(loaded), "api-rewrite")
}

func TestFunctional_ProposeConfirmWorkflow(t *testing.T) {
	s := newTestSession(t)

	s.callTool(t, "switch_project", map[string]any{
		"name":              "writing-project",
		"create_if_missing": true,
		"template":          "writing",
	})

	proposed := s.callTool(t, "propose_update", map[string]any{
		"type": "progress",
		"update": map[string]any{
			"completedTasks": []string{"Draft outline"},
			"currentFocus":   "First section",
		},
	})
	var proposal struct {
		ProposalID    string   `json:"proposal_id"`
		ChangeSummary []string `json:"change_summary"`
	}
	require.NoError(t, json.Unmarshal(proposed, &proposal))
	require.NotEmpty(t, proposal.ProposalID)
	require.NotEmpty(t, proposal.ChangeSummary)

	confirmed := s.callTool(t, "confirm_update", map[string]any{
		"proposal_id": proposal.ProposalID,
	})
	var commit struct {
		Project struct {
			OpenTasks      []string `json:"openTasks"`
			CompletedTasks []string `json:"completedTasks"`
			CurrentFocus   string   `json:"currentFocus"`
		} `json:"project"`
		Session struct {
			LastProject string `json:"lastProject"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(confirmed, &commit))
	require.Contains(t, commit.Project.CompletedTasks, "Draft outline")
	require.NotContains(t, commit.Project.OpenTasks, "Draft outline")
	require.Equal(t, "First section", commit.Project.CurrentFocus)
	require.Equal(t, "writing-project", commit.Session.LastProject)

	// double confirm surfaces a structured failure, not a protocol error
	stale := s.callToolRaw(t, "confirm_update", map[string]any{
		"proposal_id": proposal.ProposalID,
	})
	require.True(t, stale.IsError)
	require.Contains(t, textOf(t, stale), "PROPOSAL_NOT_FOUND")
}

func TestFunctional_SensitiveDataIsRejected(t *testing.T) {
	s := newTestSession(t)

	s.callTool(t, "switch_project", map[string]any{
		"name":              "secrets-test",
		"create_if_missing": true,
	})

	result := s.callToolRaw(t, "propose_update", map[string]any{
		"type": "progress",
		"update": map[string]any{
			"newTasks": []string{"rotate key sk-ABCDEFGHIJKLMNOPQRST"},
		},
	})
	require.True(t, result.IsError)
	require.Contains(t, textOf(t, result), "SENSITIVE_DATA")
}

func TestFunctional_StackRoundTrip(t *testing.T) {
	s := newTestSession(t)

	s.callTool(t, "switch_project", map[string]any{
		"name":              "main-work",
		"create_if_missing": true,
		"template":          "software",
	})
	s.callTool(t, "switch_project", map[string]any{
		"name":              "side-quest",
		"create_if_missing": true,
	})

	returned := s.callTool(t, "return_to_previous", nil)
	var back struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		StackDepth int `json:"stack_depth"`
	}
	require.NoError(t, json.Unmarshal(returned, &back))
	require.Equal(t, "main-work", back.Project.Name)
	require.Zero(t, back.StackDepth)

	// empty stack is a structured failure
	empty := s.callToolRaw(t, "return_to_previous", nil)
	require.True(t, empty.IsError)
	require.Contains(t, textOf(t, empty), "NO_PREVIOUS_PROJECT")
}

func TestFunctional_TemplatesAndScaffold(t *testing.T) {
	s := newTestSession(t)

	templates := s.callTool(t, "list_templates", nil)
	var list struct {
		Templates []struct {
			Kind string `json:"kind"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(templates, &list))
	require.Len(t, list.Templates, 5)

	scaffold := s.callTool(t, "generate_scaffold", map[string]any{
		"template": "software",
		"name":     "My Project",
	})
	require.Contains(t, string(scaffold), "git init")
	require.Contains(t, string(scaffold), "my-project")
}

func TestFunctional_DocResources(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resources.Resources)

	read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{
		URI: "brain://docs/concepts",
	})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "openTasks")
}
