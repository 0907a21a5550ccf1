// Package workflow implements the project-context store and the
// propose/confirm update workflow. A Manager is an explicit per-session
// context object: it owns the current project, the stack of previously
// active projects, the pending proposal table, and a read-through cache over
// the external state store. Operations are synchronous and single-threaded;
// the manager performs no external effects itself, it only returns
// instructions describing them.
package workflow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/instruction"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/project"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/sensitive"
	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/template"
	"github.com/google/uuid"
)

// Config holds the workflow's tunable product constants.
type Config struct {
	ProposalTTL         time.Duration
	RecentTaskLimit     int
	RecentDecisionLimit int
}

// DefaultConfig returns the stock workflow configuration.
func DefaultConfig() Config {
	return Config{
		ProposalTTL:         5 * time.Minute,
		RecentTaskLimit:     5,
		RecentDecisionLimit: 3,
	}
}

// StackFrame is a deep-copied snapshot of a project pushed when switching
// away from it. Frames are exclusively owned by the manager; later mutation
// of the live project cannot reach them.
type StackFrame struct {
	Project  *project.Record `json:"project"`
	PushedAt time.Time       `json:"pushed_at"`
	Mode     intent.Mode     `json:"mode"`
}

// Manager holds all conversational project-context state for one session.
type Manager struct {
	cfg       Config
	templates *template.Registry
	logger    *slog.Logger
	now       func() time.Time

	current *project.Record
	session *project.SessionContext
	mode    intent.Mode
	stack   []StackFrame
	pending map[string]*Proposal
	cache   map[string]*project.Record
}

// NewManager creates a manager with an empty context.
func NewManager(cfg Config, templates *template.Registry, logger *slog.Logger) *Manager {
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = DefaultConfig().ProposalTTL
	}
	if cfg.RecentTaskLimit <= 0 {
		cfg.RecentTaskLimit = DefaultConfig().RecentTaskLimit
	}
	if cfg.RecentDecisionLimit <= 0 {
		cfg.RecentDecisionLimit = DefaultConfig().RecentDecisionLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:       cfg,
		templates: templates,
		logger:    logger,
		now:       time.Now,
		mode:      intent.ModeGeneralAssistant,
		pending:   map[string]*Proposal{},
		cache:     map[string]*project.Record{},
	}
}

// SetClock overrides the manager's clock. Tests only.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// ActiveProject returns the currently active project, or nil.
func (m *Manager) ActiveProject() *project.Record { return m.current }

// Session returns the last derived session context, or nil.
func (m *Manager) Session() *project.SessionContext { return m.session }

// Mode returns the current conversation mode.
func (m *Manager) Mode() intent.Mode { return m.mode }

// SetMode records the conversation mode; it is captured in stack frames and
// the derived session context.
func (m *Manager) SetMode(mode intent.Mode) { m.mode = mode }

// StackDepth returns the number of stacked project snapshots.
func (m *Manager) StackDepth() int { return len(m.stack) }

// LoadProject returns the cached record for a name. On a miss it returns the
// state_get instruction the caller must execute against the external store
// before seeding the cache with SeedProject.
func (m *Manager) LoadProject(name string) (*project.Record, []instruction.Instruction, error) {
	if name == "" {
		return nil, nil, ErrInvalidInput
	}
	if rec, ok := m.cache[name]; ok {
		return rec, nil, nil
	}
	fetch := []instruction.Instruction{
		instruction.StateGet(instruction.CategoryProject, name),
	}
	return nil, fetch, ErrProjectNotFound
}

// SeedProject populates the cache with an externally fetched record. The
// cache holds its own clone so caller mutation cannot corrupt it.
func (m *Manager) SeedProject(rec *project.Record) error {
	if rec == nil || rec.Name == "" {
		return ErrInvalidInput
	}
	m.cache[rec.Name] = rec.Clone()
	return nil
}

// SeedSession restores a previously persisted session context, typically at
// conversation start from (system, last_session_context).
func (m *Manager) SeedSession(sc *project.SessionContext) {
	m.session = sc.Clone()
	if sc != nil && sc.ConversationMode != "" {
		m.mode = intent.Mode(sc.ConversationMode)
	}
}

// SwitchResult reports the outcome of a project switch.
type SwitchResult struct {
	Project      *project.Record           `json:"project"`
	Created      bool                      `json:"created"`
	StackDepth   int                       `json:"stack_depth"`
	Instructions []instruction.Instruction `json:"instructions,omitempty"`
}

// SwitchProject activates a project by name, pushing the current one onto the
// stack. When the target is unknown and createIfMissing is set, it is seeded
// from the named template (unknown kinds fall back to custom) and the
// persistence instructions for the new record are returned.
func (m *Manager) SwitchProject(name string, createIfMissing bool, kind template.Kind) (*SwitchResult, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	if m.current != nil && m.current.Name == name {
		return &SwitchResult{Project: m.current, StackDepth: len(m.stack)}, nil
	}

	// Resolve the target before touching the stack so a failed switch
	// leaves the context unchanged.
	target, ok := m.cache[name]
	var created bool
	var instructions []instruction.Instruction
	if !ok {
		if !createIfMissing {
			return nil, ErrProjectNotFound
		}
		if kind == "" {
			kind = template.KindCustom
		}
		target = m.templates.Instantiate(kind, name, nil)
		created = true
		instructions = append(instructions,
			instruction.StateSet(instruction.CategoryProject, name, target))
		instructions = append(instructions, template.Scaffold(kind, name)...)
		m.logger.Info("created project from template", "project", name, "template", string(kind))
	}

	if m.current != nil {
		m.stack = append(m.stack, StackFrame{
			Project:  m.current.Clone(),
			PushedAt: m.now(),
			Mode:     m.mode,
		})
	}

	m.current = target
	m.cache[name] = target
	m.logger.Info("switched project", "project", name, "created", created, "stack_depth", len(m.stack))

	return &SwitchResult{
		Project:      target,
		Created:      created,
		StackDepth:   len(m.stack),
		Instructions: instructions,
	}, nil
}

// ReturnToPrevious pops the project stack and restores the snapshot as the
// current project. Mutations made since the push do not leak into it.
func (m *Manager) ReturnToPrevious() (*SwitchResult, error) {
	if len(m.stack) == 0 {
		return nil, ErrNoPreviousProject
	}

	frame := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	m.current = frame.Project
	m.mode = frame.Mode
	m.cache[frame.Project.Name] = frame.Project
	m.logger.Info("returned to previous project", "project", frame.Project.Name, "stack_depth", len(m.stack))

	return &SwitchResult{Project: m.current, StackDepth: len(m.stack)}, nil
}

// Propose stages an update against the target project (explicit name, else
// the active one). The payload is scanned for sensitive data first; any
// error aborts the proposal. The returned proposal awaits Confirm or Reject
// and expires after the configured TTL.
func (m *Manager) Propose(update Update, targetName string) (*Proposal, error) {
	m.sweepExpired()

	if update == nil {
		return nil, ErrInvalidInput
	}

	target := m.current
	if targetName != "" {
		cached, ok := m.cache[targetName]
		if !ok {
			return nil, ErrProjectNotFound
		}
		target = cached
	}
	if target == nil {
		return nil, ErrNoActiveProject
	}

	if res := sensitive.Scan(update, ""); !res.Valid {
		m.logger.Warn("update rejected by sensitive-data scan", "project", target.Name, "fields", res.Errors)
		return nil, &ValidationError{Fields: res.Errors}
	}

	now := m.now()
	proposed := target.Clone()
	summary := update.apply(proposed, now)
	proposed.LastModified = now

	proposal := &Proposal{
		ID:            uuid.NewString(),
		Type:          update.Type(),
		CreatedAt:     now,
		ProjectName:   target.Name,
		ChangeSummary: summary,
		Proposed:      proposed,
		Update:        update,
		Prompt:        buildPrompt(target.Name, summary),
	}
	m.pending[proposal.ID] = proposal
	m.logger.Info("staged update proposal", "id", proposal.ID, "type", string(proposal.Type), "project", target.Name)

	return proposal, nil
}

// CommitResult reports a confirmed update: the committed record, the freshly
// derived session context, and the persistence instructions the caller must
// execute.
type CommitResult struct {
	Project      *project.Record           `json:"project"`
	Session      *project.SessionContext   `json:"session"`
	Instructions []instruction.Instruction `json:"instructions"`
}

// Confirm commits a pending proposal. An unknown or expired id yields
// ErrProposalNotFound; confirming the same id twice fails the second time.
func (m *Manager) Confirm(id string, mods *Modifications) (*CommitResult, error) {
	proposal, ok := m.pending[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	if m.expired(proposal) {
		delete(m.pending, id)
		return nil, ErrProposalNotFound
	}

	committed := proposal.Proposed
	mods.applyTo(committed)

	m.current = committed
	m.cache[committed.Name] = committed
	m.session = m.deriveSession(committed, proposal.ChangeSummary)
	delete(m.pending, id)

	instructions := []instruction.Instruction{
		instruction.StateSet(instruction.CategoryProject, committed.Name, committed),
		instruction.StateSet(instruction.CategorySystem, instruction.KeyLastSessionContext, m.session),
	}
	m.logger.Info("confirmed update", "id", id, "project", committed.Name)

	return &CommitResult{
		Project:      committed,
		Session:      m.session,
		Instructions: instructions,
	}, nil
}

// Reject discards a pending proposal without committing it.
func (m *Manager) Reject(id string) error {
	if _, ok := m.pending[id]; !ok {
		return ErrProposalNotFound
	}
	delete(m.pending, id)
	m.logger.Info("rejected update", "id", id)
	return nil
}

// Pending returns summaries of the live (unexpired) proposals.
func (m *Manager) Pending() []ProposalSummary {
	var out []ProposalSummary
	for _, p := range m.pending {
		if m.expired(p) {
			continue
		}
		out = append(out, ProposalSummary{
			ID:          p.ID,
			Type:        p.Type,
			ProjectName: p.ProjectName,
			CreatedAt:   p.CreatedAt,
			Summary:     p.ChangeSummary,
		})
	}
	return out
}

func (m *Manager) deriveSession(rec *project.Record, summary []string) *project.SessionContext {
	tasks := rec.OpenTasks
	if len(tasks) > m.cfg.RecentTaskLimit {
		tasks = tasks[:m.cfg.RecentTaskLimit]
	}
	decisions := rec.Decisions
	if len(decisions) > m.cfg.RecentDecisionLimit {
		decisions = decisions[len(decisions)-m.cfg.RecentDecisionLimit:]
	}

	activity := "updated project"
	if len(summary) > 0 {
		activity = summary[0]
	}

	return &project.SessionContext{
		At:               m.now(),
		LastProject:      rec.Name,
		LastActivity:     activity,
		ConversationMode: string(m.mode),
		RecentTasks:      append([]string(nil), tasks...),
		RecentDecisions:  append([]project.Decision(nil), decisions...),
	}
}

// sweepExpired lazily drops expired proposals. Called on each new proposal;
// there is no background timer, the pending table's lifetime is bounded by
// the host process.
func (m *Manager) sweepExpired() {
	for id, p := range m.pending {
		if m.expired(p) {
			delete(m.pending, id)
			m.logger.Debug("expired proposal swept", "id", id, "age", m.now().Sub(p.CreatedAt).String())
		}
	}
}

func (m *Manager) expired(p *Proposal) bool {
	return m.now().Sub(p.CreatedAt) > m.cfg.ProposalTTL
}

// DescribeStack returns a compact description of the stacked projects, most
// recent last.
func (m *Manager) DescribeStack() []string {
	out := make([]string, len(m.stack))
	for i, frame := range m.stack {
		out[i] = fmt.Sprintf("%s (pushed %s)", frame.Project.Name, frame.PushedAt.Format(time.RFC3339))
	}
	return out
}
