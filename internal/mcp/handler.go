package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/instruction"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/template"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/workflow"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository"
)

// Handler dispatches MCP commands. Each MCP session gets its own workflow
// manager; managers live for the lifetime of the process.
type Handler struct {
	classifier *intent.Classifier
	templates  *template.Registry
	store      repository.StateRepository // optional; nil means instructions are returned unexecuted
	cfg        workflow.Config
	logger     *slog.Logger

	mu       sync.Mutex
	managers map[string]*workflow.Manager
}

// NewHandler creates a new MCP handler.
func NewHandler(classifier *intent.Classifier, templates *template.Registry, store repository.StateRepository, cfg workflow.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		classifier: classifier,
		templates:  templates,
		store:      store,
		cfg:        cfg,
		logger:     logger,
		managers:   make(map[string]*workflow.Manager),
	}
}

// manager returns the workflow manager for a session, creating it on first
// use. An empty session ID maps to a shared default manager (stdio clients
// that never set one).
func (h *Handler) manager(ctx context.Context, sessionID string) *workflow.Manager {
	if sessionID == "" {
		sessionID = "default"
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.managers[sessionID]; ok {
		return m
	}

	m := workflow.NewManager(h.cfg, h.templates, h.logger.With("mcp_session", sessionID))
	if sc := h.loadSessionContext(ctx); sc != nil {
		m.SeedSession(sc)
	}
	h.managers[sessionID] = m
	return m
}

// loadSessionContext restores the persisted session context from the local
// store, when one is configured.
func (h *Handler) loadSessionContext(ctx context.Context) *project.SessionContext {
	if h.store == nil {
		return nil
	}
	data, err := h.store.Get(ctx, instruction.CategorySystem, instruction.KeyLastSessionContext)
	if err != nil {
		return nil
	}
	var sc project.SessionContext
	if err := json.Unmarshal(data, &sc); err != nil {
		h.logger.Warn("invalid persisted session context", "error", err)
		return nil
	}
	return &sc
}

// execute runs state instructions against the local store and returns the
// ones the caller still has to perform. Without a store every instruction is
// returned.
func (h *Handler) execute(ctx context.Context, instructions []instruction.Instruction) []instruction.Instruction {
	if h.store == nil || len(instructions) == 0 {
		return instructions
	}

	var remaining []instruction.Instruction
	for _, inst := range instructions {
		if inst.Tool != instruction.ToolStateSet {
			remaining = append(remaining, inst)
			continue
		}
		category, _ := inst.Args["category"].(string)
		key, _ := inst.Args["key"].(string)
		data, err := json.Marshal(inst.Args["value"])
		if err != nil {
			h.logger.Error("failed to encode state value", "category", category, "key", key, "error", err)
			remaining = append(remaining, inst)
			continue
		}
		if err := h.store.Set(ctx, category, key, data); err != nil {
			h.logger.Error("failed to execute state instruction", "category", category, "key", key, "error", err)
			remaining = append(remaining, inst)
		}
	}
	return remaining
}

// Handle dispatches MCP tool calls to the session's workflow manager.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	m := h.manager(ctx, sessionID)

	switch method {
	case "classify_intent":
		var req ClassifyIntentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		lastProject := req.LastProject
		if lastProject == "" {
			if sc := m.Session(); sc != nil {
				lastProject = sc.LastProject
			}
		}
		cls := h.classifier.Classify(req.Message, &intent.Context{
			LastProject: lastProject,
			History:     req.History,
		})
		m.SetMode(cls.Mode)
		return ClassifyIntentResponse{
			Mode:       cls.Mode,
			Confidence: cls.Confidence,
			Reasoning:  cls.Reasoning,
		}, nil
	case "switch_project":
		var req SwitchProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.hydrateFromStore(ctx, m, req.Name)
		res, err := m.SwitchProject(req.Name, req.CreateIfMissing, template.Kind(req.Template))
		if err != nil {
			return nil, mapError(err)
		}
		return SwitchProjectResponse{
			Project:      res.Project,
			Created:      res.Created,
			StackDepth:   res.StackDepth,
			Instructions: h.execute(ctx, res.Instructions),
		}, nil
	case "return_to_previous":
		res, err := m.ReturnToPrevious()
		if err != nil {
			return nil, mapError(err)
		}
		return ReturnToPreviousResponse{
			Project:    res.Project,
			StackDepth: res.StackDepth,
		}, nil
	case "load_project":
		var req LoadProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.hydrateFromStore(ctx, m, req.Name)
		rec, fetch, err := m.LoadProject(req.Name)
		if err != nil {
			if len(fetch) > 0 && h.store == nil {
				return LoadProjectResponse{Instructions: fetch}, nil
			}
			return nil, mapError(err)
		}
		return LoadProjectResponse{Project: rec}, nil
	case "get_context":
		return GetContextResponse{
			Project:    m.ActiveProject(),
			Session:    m.Session(),
			Mode:       m.Mode(),
			Stack:      m.DescribeStack(),
			StackDepth: m.StackDepth(),
		}, nil
	case "propose_update":
		var req ProposeUpdateParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		update, err := decodeUpdate(req.Type, req.Update)
		if err != nil {
			return nil, mapError(err)
		}
		proposal, err := m.Propose(update, req.Project)
		if err != nil {
			return nil, mapError(err)
		}
		return ProposeUpdateResponse{
			ProposalID:    proposal.ID,
			Type:          string(proposal.Type),
			ProjectName:   proposal.ProjectName,
			ChangeSummary: proposal.ChangeSummary,
			Proposed:      proposal.Proposed,
			Prompt:        proposal.Prompt,
			ExpiresAt:     proposal.CreatedAt.Add(h.cfg.ProposalTTL),
		}, nil
	case "confirm_update":
		var req ConfirmUpdateParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := m.Confirm(req.ProposalID, req.Modifications)
		if err != nil {
			return nil, mapError(err)
		}
		return ConfirmUpdateResponse{
			Project:      res.Project,
			Session:      res.Session,
			Instructions: h.execute(ctx, res.Instructions),
		}, nil
	case "reject_update":
		var req RejectUpdateParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := m.Reject(req.ProposalID); err != nil {
			return nil, mapError(err)
		}
		return map[string]string{"status": "rejected"}, nil
	case "list_templates":
		kinds := template.Kinds()
		templates := make([]TemplateInfo, 0, len(kinds))
		for _, kind := range kinds {
			def, ok := h.templates.Get(kind)
			if !ok {
				continue
			}
			fields := make([]string, 0, len(def.Metadata))
			for field := range def.Metadata {
				fields = append(fields, field)
			}
			templates = append(templates, TemplateInfo{
				Kind:      string(kind),
				Focus:     def.Focus,
				Metadata:  fields,
				OpenTasks: def.OpenTasks,
			})
		}
		return ListTemplatesResponse{Templates: templates}, nil
	case "generate_scaffold":
		var req GenerateScaffoldParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Name == "" {
			return nil, mapError(workflow.ErrInvalidInput)
		}
		return GenerateScaffoldResponse{
			Instructions: template.Scaffold(template.Kind(req.Template), req.Name),
		}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// hydrateFromStore seeds the manager's cache from the local store so switch
// and load see projects persisted by earlier sessions.
func (h *Handler) hydrateFromStore(ctx context.Context, m *workflow.Manager, name string) {
	if h.store == nil || name == "" {
		return
	}
	if _, _, err := m.LoadProject(name); err == nil {
		return
	}
	data, err := h.store.Get(ctx, instruction.CategoryProject, name)
	if err != nil {
		return
	}
	var rec project.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		h.logger.Warn("invalid persisted project record", "project", name, "error", err)
		return
	}
	if err := m.SeedProject(&rec); err != nil {
		h.logger.Warn("failed to seed project from store", "project", name, "error", err)
	}
}

func decodeUpdate(updateType string, raw json.RawMessage) (workflow.Update, error) {
	kind, err := workflow.ParseUpdateType(updateType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrInvalidInput, err)
	}

	switch kind {
	case workflow.UpdateProgress:
		var u workflow.ProgressUpdate
		if err := decodeParams(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	case workflow.UpdateDecision:
		var u workflow.DecisionUpdate
		if err := decodeParams(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	case workflow.UpdateMilestone:
		var u workflow.MilestoneUpdate
		if err := decodeParams(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	case workflow.UpdateInsight:
		var u workflow.InsightUpdate
		if err := decodeParams(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, workflow.ErrInvalidInput
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
