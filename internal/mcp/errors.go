package mcp

import (
	"errors"
	"fmt"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/workflow"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *workflow.ValidationError
	if errors.As(err, &verr) {
		return &APIError{
			Code:         "SENSITIVE_DATA",
			Message:      "update rejected: payload contains sensitive data",
			Details:      verr.Fields,
			RecoveryHint: "Remove secrets and credentials from the update, then propose again",
		}
	}
	switch {
	case errors.Is(err, workflow.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Use switch_project with create_if_missing, or check the name"}
	case errors.Is(err, workflow.ErrNoActiveProject):
		return &APIError{Code: "NO_ACTIVE_PROJECT", Message: "no active project", RecoveryHint: "Call switch_project first"}
	case errors.Is(err, workflow.ErrNoPreviousProject):
		return &APIError{Code: "NO_PREVIOUS_PROJECT", Message: "project stack is empty", RecoveryHint: "Nothing to return to; use switch_project"}
	case errors.Is(err, workflow.ErrProposalNotFound):
		return &APIError{Code: "PROPOSAL_NOT_FOUND", Message: "proposal not found or expired", RecoveryHint: "Propose the update again"}
	case errors.Is(err, workflow.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", RecoveryHint: "Check required arguments"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "STATE_NOT_FOUND", Message: "state entry not found", RecoveryHint: "Check the category and key"}
	default:
		return nil
	}
}
