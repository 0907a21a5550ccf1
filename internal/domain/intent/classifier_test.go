package intent_test

import (
	"testing"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/domain/intent"
	"github.com/stretchr/testify/require"
)

func newClassifier() *intent.Classifier {
	return intent.NewClassifier(intent.DefaultConfidence(), intent.DefaultKeywords())
}

func TestClassify_ExplicitSwitch(t *testing.T) {
	c := newClassifier()

	for i := 0; i < 3; i++ {
		got := c.Classify("switch to research mode", nil)
		require.Equal(t, intent.ModeResearch, got.Mode)
		require.Equal(t, 0.95, got.Confidence)
	}

	// context must not affect an explicit switch
	got := c.Classify("switch to research mode", &intent.Context{LastProject: "x"})
	require.Equal(t, intent.ModeResearch, got.Mode)
	require.Equal(t, 0.95, got.Confidence)
}

func TestClassify_ExplicitSwitchVariants(t *testing.T) {
	c := newClassifier()

	got := c.Classify("please switch to tarot", nil)
	require.Equal(t, intent.ModeTarot, got.Mode)

	got = c.Classify("switch to project management mode", nil)
	require.Equal(t, intent.ModeProjectManagement, got.Mode)
}

func TestClassify_ExplicitSwitchUnknownModeIgnored(t *testing.T) {
	c := newClassifier()
	got := c.Classify("switch to turbo mode", nil)
	require.NotEqual(t, 0.95, got.Confidence)
}

func TestClassify_Continuation(t *testing.T) {
	c := newClassifier()

	got := c.Classify("let's continue this", &intent.Context{LastProject: "X"})
	require.Equal(t, intent.ModeProjectContinuation, got.Mode)
	require.Equal(t, 0.85, got.Confidence)
}

func TestClassify_ContinuationRequiresLastProject(t *testing.T) {
	c := newClassifier()

	got := c.Classify("let's continue this", nil)
	require.NotEqual(t, intent.ModeProjectContinuation, got.Mode)

	got = c.Classify("let's continue this", &intent.Context{})
	require.NotEqual(t, intent.ModeProjectContinuation, got.Mode)
}

func TestClassify_KeywordScoring(t *testing.T) {
	c := newClassifier()

	got := c.Classify("analyze this data and evaluate the metrics", nil)
	require.Equal(t, intent.ModeAnalysis, got.Mode)
	require.Greater(t, got.Confidence, 0.5)

	got = c.Classify("draw a card from the tarot deck", nil)
	require.Equal(t, intent.ModeTarot, got.Mode)
}

func TestClassify_NoMatchesFallsBackToGeneral(t *testing.T) {
	c := newClassifier()

	got := c.Classify("hello there", nil)
	require.Equal(t, intent.ModeGeneralAssistant, got.Mode)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier()
	msg := "help me research the project analysis data"

	first := c.Classify(msg, nil)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, c.Classify(msg, nil))
	}
}
