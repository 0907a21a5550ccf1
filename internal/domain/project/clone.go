package project

// Clone returns a deep copy of the record. Snapshots pushed onto the project
// stack and proposal working copies must never alias the live record, so all
// slices and the metadata tree are copied structurally.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	out := *r
	out.OpenTasks = cloneStrings(r.OpenTasks)
	out.CompletedTasks = cloneStrings(r.CompletedTasks)
	out.KeyFiles = cloneStrings(r.KeyFiles)

	if r.Decisions != nil {
		out.Decisions = make([]Decision, len(r.Decisions))
		copy(out.Decisions, r.Decisions)
	}
	if r.Milestones != nil {
		out.Milestones = make([]Milestone, len(r.Milestones))
		for i, m := range r.Milestones {
			m.Artifacts = cloneStrings(m.Artifacts)
			out.Milestones[i] = m
		}
	}
	if r.Metadata != nil {
		out.Metadata = CloneMetadata(r.Metadata)
	}

	return &out
}

// Clone returns a deep copy of the session context.
func (s *SessionContext) Clone() *SessionContext {
	if s == nil {
		return nil
	}
	out := *s
	out.RecentTasks = cloneStrings(s.RecentTasks)
	if s.RecentDecisions != nil {
		out.RecentDecisions = make([]Decision, len(s.RecentDecisions))
		copy(out.RecentDecisions, s.RecentDecisions)
	}
	return &out
}

// CloneMetadata deep-copies a metadata tree of maps, slices, and scalars.
func CloneMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneStrings(val)
	default:
		return v
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
