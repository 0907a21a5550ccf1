// Package intent classifies free-text user messages into conversation modes
// using keyword heuristics. Classification is deterministic and stateless:
// the same message and context always yield the same result.
package intent

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Mode is a conversation mode label.
type Mode string

const (
	ModeProjectManagement   Mode = "project_management"
	ModeProjectContinuation Mode = "project_continuation"
	ModeResearch            Mode = "research"
	ModeAnalysis            Mode = "analysis"
	ModeHelp                Mode = "help"
	ModeTarot               Mode = "tarot"
	ModeGeneralAssistant    Mode = "general_assistant"
)

// switchableModes are the targets an explicit "switch to <mode>" can name.
var switchableModes = []Mode{
	ModeProjectManagement,
	ModeResearch,
	ModeAnalysis,
	ModeHelp,
	ModeTarot,
	ModeGeneralAssistant,
}

// Context carries conversational state that can bias classification.
type Context struct {
	LastProject string
	History     []string
}

// Classification is the classifier's verdict. Reasoning is cosmetic; callers
// must not branch on it.
type Classification struct {
	Mode       Mode    `json:"mode"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Confidence holds the tunable confidence values. The specific numbers are
// product choices, not derived quantities, so they are parameters.
type Confidence struct {
	Explicit     float64
	Continuation float64
	High         float64
	Medium       float64
	Low          float64
	Floor        float64
	ZeroScore    float64
	Baseline     float64
}

// DefaultConfidence returns the stock confidence values.
func DefaultConfidence() Confidence {
	return Confidence{
		Explicit:     0.95,
		Continuation: 0.85,
		High:         0.9,
		Medium:       0.75,
		Low:          0.6,
		Floor:        0.45,
		ZeroScore:    0.3,
		Baseline:     0.1,
	}
}

// Classifier scores messages against keyword buckets per mode.
type Classifier struct {
	confidence Confidence
	keywords   map[Mode]KeywordSet
	switchRe   *regexp.Regexp
}

// NewClassifier creates a classifier with the given confidence values and
// keyword buckets. Pass DefaultConfidence and DefaultKeywords for stock
// behavior.
func NewClassifier(conf Confidence, keywords map[Mode]KeywordSet) *Classifier {
	return &Classifier{
		confidence: conf,
		keywords:   keywords,
		switchRe:   regexp.MustCompile(`(?i)switch\s+to\s+([a-z_ ]+?)(?:\s+mode)?\s*$`),
	}
}

// Classify determines the conversation mode for a message. Priority order:
// explicit mode switch, continuation heuristic, keyword scoring.
func (c *Classifier) Classify(message string, cctx *Context) Classification {
	if mode, ok := c.explicitSwitch(message); ok {
		return Classification{
			Mode:       mode,
			Confidence: c.confidence.Explicit,
			Reasoning:  "explicit mode switch requested",
		}
	}

	if cctx != nil && cctx.LastProject != "" && containsContinuation(message) {
		return Classification{
			Mode:       ModeProjectContinuation,
			Confidence: c.confidence.Continuation,
			Reasoning: fmt.Sprintf("continuation phrase with active project %q",
				cctx.LastProject),
		}
	}

	scores, matches := c.score(message)
	best, second := topTwo(scores)

	conf := c.bandedConfidence(scores[best], scores[second])
	reasoning := c.buildReasoning(best, matches[best], conf, cctx)

	return Classification{Mode: best, Confidence: conf, Reasoning: reasoning}
}

func (c *Classifier) explicitSwitch(message string) (Mode, bool) {
	m := c.switchRe.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	requested := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(m[1])), " ", "_")
	for _, mode := range switchableModes {
		if requested == string(mode) || requested == shortName(mode) {
			return mode, true
		}
	}
	return "", false
}

// shortName lets "switch to research" work without the full label.
func shortName(mode Mode) string {
	switch mode {
	case ModeProjectManagement:
		return "project"
	case ModeGeneralAssistant:
		return "general"
	default:
		return string(mode)
	}
}

var continuationPhrases = []string{
	"continue",
	"let's",
	"next",
	"resume",
	"where were we",
	"keep going",
	"pick up",
	"back to",
}

func containsContinuation(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range continuationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// score computes the normalized keyword score per mode. Phrases count double;
// totals are divided by the square root of the word count so long messages
// don't inflate scores.
func (c *Classifier) score(message string) (map[Mode]float64, map[Mode][]string) {
	lower := strings.ToLower(message)
	wordCount := len(strings.Fields(lower))
	if wordCount == 0 {
		wordCount = 1
	}
	norm := math.Sqrt(float64(wordCount))

	scores := map[Mode]float64{ModeGeneralAssistant: c.confidence.Baseline}
	matches := make(map[Mode][]string)

	for mode, set := range c.keywords {
		raw := 0.0
		for _, phrase := range set.Phrases {
			if strings.Contains(lower, phrase) {
				raw += 2
				matches[mode] = append(matches[mode], phrase)
			}
		}
		for _, word := range set.Words {
			if containsWord(lower, word) {
				raw++
				matches[mode] = append(matches[mode], word)
			}
		}
		scores[mode] = raw / norm
	}

	return scores, matches
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,!?;:'\"()") == word {
			return true
		}
	}
	return false
}

func topTwo(scores map[Mode]float64) (best, second Mode) {
	modes := make([]Mode, 0, len(scores))
	for mode := range scores {
		modes = append(modes, mode)
	}
	// deterministic tie-breaking
	sort.Slice(modes, func(i, j int) bool {
		if scores[modes[i]] != scores[modes[j]] {
			return scores[modes[i]] > scores[modes[j]]
		}
		return modes[i] < modes[j]
	})
	best = modes[0]
	if len(modes) > 1 {
		second = modes[1]
	}
	return best, second
}

func (c *Classifier) bandedConfidence(best, second float64) float64 {
	if best == 0 {
		return c.confidence.ZeroScore
	}
	margin := best - second
	ratio := math.Inf(1)
	if second > 0 {
		ratio = best / second
	}
	switch {
	case margin > 1 && ratio > 2:
		return c.confidence.High
	case margin > 0.5 && ratio > 1.5:
		return c.confidence.Medium
	case margin > 0.25:
		return c.confidence.Low
	default:
		return c.confidence.Floor
	}
}

func (c *Classifier) buildReasoning(mode Mode, matched []string, conf float64, cctx *Context) string {
	var parts []string

	if len(matched) > 0 {
		limit := len(matched)
		if limit > 3 {
			limit = 3
		}
		parts = append(parts, fmt.Sprintf("matched keywords: %s", strings.Join(matched[:limit], ", ")))
	} else {
		parts = append(parts, "no keyword matches, defaulting")
	}

	switch {
	case conf >= c.confidence.High:
		parts = append(parts, "high confidence")
	case conf >= c.confidence.Medium:
		parts = append(parts, "moderate confidence")
	default:
		parts = append(parts, "low confidence")
	}

	if cctx != nil && len(cctx.History) > 0 {
		parts = append(parts, "conversation history considered")
	}

	return fmt.Sprintf("%s: %s", mode, strings.Join(parts, "; "))
}
