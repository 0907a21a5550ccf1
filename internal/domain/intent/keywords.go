package intent

// KeywordSet holds the scoring vocabulary for one mode. Phrases score two
// points per match, words one.
type KeywordSet struct {
	Phrases []string
	Words   []string
}

// DefaultKeywords returns the stock keyword buckets. The lists are hand-tuned
// product constants carried over as-is; treat them as data, not design.
func DefaultKeywords() map[Mode]KeywordSet {
	return map[Mode]KeywordSet{
		ModeProjectManagement: {
			Phrases: []string{
				"project status",
				"switch project",
				"new project",
				"create a project",
				"update the project",
				"track progress",
			},
			Words: []string{
				"project", "task", "tasks", "milestone", "roadmap",
				"deadline", "progress", "backlog",
			},
		},
		ModeResearch: {
			Phrases: []string{
				"look up",
				"find out about",
				"search for",
				"dig into",
			},
			Words: []string{
				"research", "investigate", "explore", "learn",
				"study", "sources", "literature",
			},
		},
		ModeAnalysis: {
			Phrases: []string{
				"analyze this",
				"break down",
				"compare these",
				"pros and cons",
			},
			Words: []string{
				"analyze", "analysis", "evaluate", "assess",
				"metrics", "data", "tradeoffs",
			},
		},
		ModeHelp: {
			Phrases: []string{
				"how do i",
				"what can you do",
				"help me with",
			},
			Words: []string{
				"help", "usage", "explain", "guide", "commands",
			},
		},
		ModeTarot: {
			Phrases: []string{
				"tarot reading",
				"draw a card",
				"card spread",
			},
			Words: []string{
				"tarot", "arcana", "spread", "divination",
			},
		},
	}
}
