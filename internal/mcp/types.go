package mcp

import (
	"encoding/json"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/instruction"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/workflow"
)

type ClassifyIntentParams struct {
	Message     string   `json:"message"`
	LastProject string   `json:"last_project,omitempty"`
	History     []string `json:"history,omitempty"`
}

type ClassifyIntentResponse struct {
	Mode       intent.Mode `json:"mode"`
	Confidence float64     `json:"confidence"`
	Reasoning  string      `json:"reasoning"`
}

type SwitchProjectParams struct {
	Name            string `json:"name"`
	CreateIfMissing bool   `json:"create_if_missing,omitempty"`
	Template        string `json:"template,omitempty"`
}

type SwitchProjectResponse struct {
	Project      *project.Record           `json:"project"`
	Created      bool                      `json:"created"`
	StackDepth   int                       `json:"stack_depth"`
	Instructions []instruction.Instruction `json:"instructions,omitempty"`
}

type ReturnToPreviousResponse struct {
	Project    *project.Record `json:"project"`
	StackDepth int             `json:"stack_depth"`
}

type LoadProjectParams struct {
	Name string `json:"name"`
}

type LoadProjectResponse struct {
	Project      *project.Record           `json:"project,omitempty"`
	Instructions []instruction.Instruction `json:"instructions,omitempty"`
}

type GetContextResponse struct {
	Project    *project.Record         `json:"project,omitempty"`
	Session    *project.SessionContext `json:"session,omitempty"`
	Mode       intent.Mode             `json:"mode"`
	Stack      []string                `json:"stack,omitempty"`
	StackDepth int                     `json:"stack_depth"`
}

type ProposeUpdateParams struct {
	Type    string          `json:"type"`
	Update  json.RawMessage `json:"update"`
	Project string          `json:"project,omitempty"`
}

type ProposeUpdateResponse struct {
	ProposalID    string          `json:"proposal_id"`
	Type          string          `json:"type"`
	ProjectName   string          `json:"project_name"`
	ChangeSummary []string        `json:"change_summary"`
	Proposed      *project.Record `json:"proposed"`
	Prompt        string          `json:"prompt"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

type ConfirmUpdateParams struct {
	ProposalID    string                  `json:"proposal_id"`
	Modifications *workflow.Modifications `json:"modifications,omitempty"`
}

type ConfirmUpdateResponse struct {
	Project      *project.Record           `json:"project"`
	Session      *project.SessionContext   `json:"session"`
	Instructions []instruction.Instruction `json:"instructions,omitempty"`
}

type RejectUpdateParams struct {
	ProposalID string `json:"proposal_id"`
}

type TemplateInfo struct {
	Kind      string   `json:"kind"`
	Focus     string   `json:"focus,omitempty"`
	Metadata  []string `json:"metadata_fields"`
	OpenTasks []string `json:"open_tasks,omitempty"`
}

type ListTemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
}

type GenerateScaffoldParams struct {
	Template string `json:"template"`
	Name     string `json:"name"`
}

type GenerateScaffoldResponse struct {
	Instructions []instruction.Instruction `json:"instructions"`
}
