package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `brain-manager keeps per-conversation project context: an active project, a stack of previous projects, and a propose/confirm update workflow.

Core concepts (keep this mental model small):
- Project record: name, status, open/completed tasks, decisions, milestones, metadata. A task is either open or completed, never both.
- Session context: a compact summary (last project, last activity, top open tasks, recent decisions) regenerated after every committed update.
- Proposal: every change is staged first. Nothing mutates the project until confirm_update. Proposals expire after a few minutes.
- Instructions: the server does not touch your notes or shell itself. Some results include instructions (state_set, state_get, obsidian_note, execute_command) describing effects for you to carry out.
- Project stack: switch_project pushes a snapshot; return_to_previous restores it exactly, untouched by later edits.

Rules of engagement (default workflow):
1) Orient: call classify_intent with the user's message to pick a conversation mode, then get_context for the current state.
2) Activate: switch_project (create_if_missing + template for new work) or load_project to peek without switching.
3) Record work: propose_update with type progress/decision/milestone/insight, review the change summary with the user, then confirm_update (or reject_update).
   - A SENSITIVE_DATA error means the payload contains something that looks like a secret; strip it and propose again.
   - A PROPOSAL_NOT_FOUND error means the proposal expired or was already handled; propose again.
4) Execute any returned instructions, in order.
5) Nested work: switch_project to the digression, return_to_previous when done.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: pass session id via _meta.session_id when supported; otherwise all calls share one default session.

Docs (progressive disclosure):
- brain://docs/index (what to read when)
- brain://docs/concepts (glossary + invariants)
- brain://docs/workflows/session-start
- brain://docs/workflows/updates
- brain://docs/templates
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "brain://docs/index",
		Name:        "docs_index",
		Title:       "brain-manager docs index",
		Description: "Entry point for agent-facing docs: what exists, what to read, and known limitations.",
		Content: `# brain-manager: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`classify_intent`" + ` with the user's first message to pick a conversation mode.
2. ` + "`get_context`" + ` to see the active project, session summary, and stack.
3. ` + "`switch_project`" + ` (with ` + "`create_if_missing`" + ` and a ` + "`template`" + `) to start or resume work.
4. Record work with ` + "`propose_update`" + ` → ` + "`confirm_update`" + `.
5. Carry out any returned instructions.

## Docs (read on demand)

- ` + "`brain://docs/concepts`" + ` — glossary + invariants (task disjointness, append-only history, proposal TTL).
- ` + "`brain://docs/workflows/session-start`" + ` — the cold-start / resume playbook.
- ` + "`brain://docs/workflows/updates`" + ` — the propose/confirm loop and its failure modes.
- ` + "`brain://docs/templates`" + ` — what each project template seeds.

## Capabilities & intentional limitations

- The server holds state in memory per session. Durability comes from executing the ` + "`state_set`" + ` instructions it returns (or from the optional local store, when configured).
- ` + "`classify_intent`" + ` is keyword-based. Low-confidence results are a signal to ask the user, not to guess.
`,
	},
	{
		URI:         "brain://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Mental model + invariant rules: task disjointness, append-only history, proposals, and the project stack.",
		Content: `# Concepts and invariants

## Glossary

- **Project record**: the durable unit. Name, status (` + "`active | paused | complete | archived`" + `), summary, current focus, task lists, decisions, milestones, key files, freeform metadata.
- **Session context**: compact summary for fast resumption: last project, last activity, top open tasks, recent decisions, conversation mode.
- **Proposal**: a staged update. Holds the fully computed would-be record, a human-readable change summary, and an expiry.
- **Instruction**: a described external effect (` + "`state_set`" + `, ` + "`state_get`" + `, ` + "`obsidian_note`" + `, ` + "`execute_command`" + `) for the caller to perform.
- **Project stack**: snapshots of projects switched away from, restored verbatim by ` + "`return_to_previous`" + `.

## Invariants

- A task appears in ` + "`openTasks`" + ` or ` + "`completedTasks`" + `, never both. Progress updates move tasks, they do not copy them.
- ` + "`decisions`" + ` and ` + "`milestones`" + ` are append-only. No update rewrites history.
- Nothing mutates a project between ` + "`propose_update`" + ` and ` + "`confirm_update`" + `. Rejecting or letting a proposal expire leaves the project byte-for-byte unchanged.
- Stack snapshots are deep copies. Edits made after switching away never leak into what ` + "`return_to_previous`" + ` restores.
- Session context is regenerated wholesale on every commit, never patched incrementally.

## Sensitive data gate

Every proposed payload is scanned before staging. Key names like ` + "`password`" + `/` + "`api_key`" + `/` + "`token`" + ` and value shapes like API keys, JWTs, or credentialed connection strings are rejected with ` + "`SENSITIVE_DATA`" + `. Store a reference ("key is in 1Password"), not the secret.
`,
	},
	{
		URI:         "brain://docs/workflows/session-start",
		Name:        "docs_workflow_session_start",
		Title:       "Workflow: session start / resume",
		Description: "Playbook for new conversations: classify, orient, activate.",
		Content: `# Workflow: session start / resume

Goal: orient yourself with two cheap calls, then decide what to activate.

## 1) Classify

Call ` + "`classify_intent`" + ` with the user's message (pass ` + "`last_project`" + ` if you know it).

- Explicit "switch to X mode" always wins.
- Continuation phrases ("continue", "where were we") keep the previous project's mode.
- Below ~0.3 confidence, ask the user instead of guessing.

## 2) Orient

Call ` + "`get_context`" + `. It returns the active project, the session summary (top tasks, recent decisions), the mode, and the stack.

## 3) Activate

- Resuming: ` + "`switch_project {name}`" + `.
- New work: ` + "`switch_project {name, create_if_missing: true, template}`" + `. Execute the returned scaffold instructions.
- Just peeking: ` + "`load_project {name}`" + ` loads without changing the active project.

If ` + "`load_project`" + ` returns instructions instead of a project, execute the ` + "`state_get`" + ` and retry once the record is available.
`,
	},
	{
		URI:         "brain://docs/workflows/updates",
		Name:        "docs_workflow_updates",
		Title:       "Workflow: propose and confirm updates",
		Description: "The two-phase update loop and how to handle its failure modes.",
		Content: `# Workflow: propose and confirm updates

## Normal loop

1) ` + "`propose_update`" + ` with a type and payload:
- ` + "`progress`" + `: ` + "`completedTasks[]`" + `, ` + "`newTasks[]`" + `, ` + "`currentFocus`" + `
- ` + "`decision`" + `: ` + "`decision`" + `, ` + "`rationale`" + `, ` + "`impact`" + `
- ` + "`milestone`" + `: ` + "`title`" + `, ` + "`description`" + `, ` + "`artifacts[]`" + `
- ` + "`insight`" + `: ` + "`insight`" + `, ` + "`source`" + `

2) Show the user the returned ` + "`prompt`" + ` / ` + "`change_summary`" + `.

3) ` + "`confirm_update {proposal_id}`" + ` (optionally with ` + "`modifications`" + `), or ` + "`reject_update`" + `.

4) Execute the returned instructions (project ` + "`state_set`" + `, session-context ` + "`state_set`" + `).

## Failure modes

- ` + "`SENSITIVE_DATA`" + `: the payload looks like it contains a secret. Remove it and propose again; nothing was staged.
- ` + "`PROPOSAL_NOT_FOUND`" + `: the proposal expired (default TTL is 5 minutes) or was already confirmed/rejected. Propose again; confirming twice never double-applies.
- ` + "`NO_ACTIVE_PROJECT`" + `: call ` + "`switch_project`" + ` first, or pass an explicit ` + "`project`" + `.
`,
	},
	{
		URI:         "brain://docs/templates",
		Name:        "docs_templates",
		Title:       "Project templates",
		Description: "What each built-in template seeds: metadata skeleton, starter tasks, and scaffolding.",
		Content: `# Project templates

` + "`switch_project`" + ` with ` + "`create_if_missing`" + ` seeds the new record from a template. ` + "`list_templates`" + ` shows the live definitions; ` + "`generate_scaffold`" + ` returns the filesystem instructions without creating a record.

- **software**: language/framework/repository/environment metadata, setup-oriented starter tasks, scaffold includes ` + "`git init`" + `.
- **research**: hypothesis/methodology/sources metadata, question-framing tasks.
- **ml**: problemType/dataset/models/metrics metadata, problem-definition and baseline tasks.
- **writing**: genre/targetLength/audience metadata, outline-first tasks.
- **custom**: empty skeleton. Unknown template names fall back to this.

Every template also emits an ` + "`obsidian_note`" + ` instruction creating a project note in the ` + "`projects`" + ` folder.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
