package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/template"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/workflow"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	classifier := intent.NewClassifier(intent.DefaultConfidence(), intent.DefaultKeywords())
	return NewHandler(classifier, template.NewRegistry(), nil, workflow.DefaultConfig(), nil)
}

func rawParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandle_ClassifyIntent(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	result, err := h.Handle(ctx, "s1", "classify_intent", rawParams(t, ClassifyIntentParams{
		Message: "switch to project mode",
	}))
	require.NoError(t, err)

	resp, ok := result.(ClassifyIntentResponse)
	require.True(t, ok)
	require.Equal(t, intent.ModeProjectManagement, resp.Mode)
	require.InDelta(t, 0.95, resp.Confidence, 0.001)
	require.NotEmpty(t, resp.Reasoning)
}

func TestHandle_SwitchAndGetContext(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	result, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "api-rewrite",
		CreateIfMissing: true,
		Template:        "software",
	}))
	require.NoError(t, err)

	switched, ok := result.(SwitchProjectResponse)
	require.True(t, ok)
	require.True(t, switched.Created)
	require.NotEmpty(t, switched.Instructions)

	result, err = h.Handle(ctx, "s1", "get_context", nil)
	require.NoError(t, err)

	contextResp, ok := result.(GetContextResponse)
	require.True(t, ok)
	require.Equal(t, "api-rewrite", contextResp.Project.Name)
	require.Zero(t, contextResp.StackDepth)
}

func TestHandle_SwitchMissingProject(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Handle(context.Background(), "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name: "ghost",
	}))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)
}

func TestHandle_ProposeConfirmFlow(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "a",
		CreateIfMissing: true,
		Template:        "custom",
	}))
	require.NoError(t, err)

	result, err := h.Handle(ctx, "s1", "propose_update", rawParams(t, map[string]any{
		"type":   "progress",
		"update": map[string]any{"newTasks": []string{"write handler tests"}},
	}))
	require.NoError(t, err)

	proposed, ok := result.(ProposeUpdateResponse)
	require.True(t, ok)
	require.NotEmpty(t, proposed.ProposalID)
	require.NotEmpty(t, proposed.ChangeSummary)

	result, err = h.Handle(ctx, "s1", "confirm_update", rawParams(t, ConfirmUpdateParams{
		ProposalID: proposed.ProposalID,
	}))
	require.NoError(t, err)

	confirmed, ok := result.(ConfirmUpdateResponse)
	require.True(t, ok)
	require.Contains(t, confirmed.Project.OpenTasks, "write handler tests")
	require.Equal(t, "a", confirmed.Session.LastProject)
	require.Len(t, confirmed.Instructions, 2)

	// second confirm of the same proposal must fail
	_, err = h.Handle(ctx, "s1", "confirm_update", rawParams(t, ConfirmUpdateParams{
		ProposalID: proposed.ProposalID,
	}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "PROPOSAL_NOT_FOUND", apiErr.Code)
}

func TestHandle_ProposeSensitiveData(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "a",
		CreateIfMissing: true,
	}))
	require.NoError(t, err)

	_, err = h.Handle(ctx, "s1", "propose_update", rawParams(t, map[string]any{
		"type":   "progress",
		"update": map[string]any{"newTasks": []string{"sk-ABCDEFGHIJKLMNOPQRST"}},
	}))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "SENSITIVE_DATA", apiErr.Code)
	require.NotEmpty(t, apiErr.Details)
}

func TestHandle_ProposeUnknownType(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "a",
		CreateIfMissing: true,
	}))
	require.NoError(t, err)

	_, err = h.Handle(ctx, "s1", "propose_update", rawParams(t, map[string]any{
		"type":   "vibe",
		"update": map[string]any{},
	}))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
}

func TestHandle_RejectUpdate(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "a",
		CreateIfMissing: true,
	}))
	require.NoError(t, err)

	result, err := h.Handle(ctx, "s1", "propose_update", rawParams(t, map[string]any{
		"type":   "decision",
		"update": map[string]any{"decision": "use sqlite"},
	}))
	require.NoError(t, err)
	proposed := result.(ProposeUpdateResponse)

	result, err = h.Handle(ctx, "s1", "reject_update", rawParams(t, RejectUpdateParams{
		ProposalID: proposed.ProposalID,
	}))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"status": "rejected"}, result)

	// rejected proposal is gone
	_, err = h.Handle(ctx, "s1", "confirm_update", rawParams(t, ConfirmUpdateParams{
		ProposalID: proposed.ProposalID,
	}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "PROPOSAL_NOT_FOUND", apiErr.Code)
}

func TestHandle_SessionsAreIsolated(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "only-in-s1",
		CreateIfMissing: true,
	}))
	require.NoError(t, err)

	result, err := h.Handle(ctx, "s2", "get_context", nil)
	require.NoError(t, err)

	contextResp := result.(GetContextResponse)
	require.Nil(t, contextResp.Project, "session s2 must not see s1's project")
}

func TestHandle_ReturnToPreviousEmptyStack(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Handle(context.Background(), "s1", "return_to_previous", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "NO_PREVIOUS_PROJECT", apiErr.Code)
}

func TestHandle_ListTemplates(t *testing.T) {
	h := newTestHandler(t)

	result, err := h.Handle(context.Background(), "s1", "list_templates", nil)
	require.NoError(t, err)

	resp, ok := result.(ListTemplatesResponse)
	require.True(t, ok)
	require.Len(t, resp.Templates, 5)
}

func TestHandle_GenerateScaffold(t *testing.T) {
	h := newTestHandler(t)

	result, err := h.Handle(context.Background(), "s1", "generate_scaffold", rawParams(t, GenerateScaffoldParams{
		Template: "software",
		Name:     "My Project",
	}))
	require.NoError(t, err)

	resp, ok := result.(GenerateScaffoldResponse)
	require.True(t, ok)
	require.NotEmpty(t, resp.Instructions)
}

func TestHandle_UnknownMethod(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Handle(context.Background(), "s1", "summon_demons", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown method")
}

func TestHandle_StoreExecutesStateInstructions(t *testing.T) {
	store := &mocks.StateRepository{}
	store.On("Get", mock.Anything, "system", "last_session_context").Return(nil, repository.ErrNotFound)
	store.On("Get", mock.Anything, "project", "a").Return(nil, repository.ErrNotFound)
	store.On("Set", mock.Anything, "project", "a", mock.Anything).Return(nil)
	store.On("Set", mock.Anything, "system", "last_session_context", mock.Anything).Return(nil)

	classifier := intent.NewClassifier(intent.DefaultConfidence(), intent.DefaultKeywords())
	h := NewHandler(classifier, template.NewRegistry(), store, workflow.DefaultConfig(), nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, "s1", "switch_project", rawParams(t, SwitchProjectParams{
		Name:            "a",
		CreateIfMissing: true,
		Template:        "custom",
	}))
	require.NoError(t, err)

	result, err := h.Handle(ctx, "s1", "propose_update", rawParams(t, map[string]any{
		"type":   "decision",
		"update": map[string]any{"decision": "ship it"},
	}))
	require.NoError(t, err)
	proposed := result.(ProposeUpdateResponse)

	result, err = h.Handle(ctx, "s1", "confirm_update", rawParams(t, ConfirmUpdateParams{
		ProposalID: proposed.ProposalID,
	}))
	require.NoError(t, err)

	confirmed := result.(ConfirmUpdateResponse)
	require.Empty(t, confirmed.Instructions, "state instructions should have been executed locally")
	store.AssertCalled(t, "Set", mock.Anything, "system", "last_session_context", mock.Anything)
}
