package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredSession() *Session {
	s := NewSession("jd", "cv", 6)
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", intPtr(8))
	s.RecordAnswer(s.NoteQuestion("q2"), "a2", intPtr(6))
	return s
}

func TestFinalizer_NoScoresSkipsModel(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "unused", nil }}
	f := NewFinalizer(llm, testLogger())

	s := NewSession("jd", "cv", 3)
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", nil)

	out := f.Assess(context.Background(), s)
	assert.Nil(t, out.AverageScore)
	assert.Equal(t, fallbackSummary, out.Summary)
	assert.Equal(t, fallbackRecommendation, out.Recommendation)
	assert.Equal(t, 0, llm.callCount(), "nothing to summarize, the model is not consulted")
}

func TestFinalizer_ParsesStructuredReply(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) {
		return "Summary: Clear communicator with solid fundamentals.\nRecommendation: Yes - advance to the onsite round.", nil
	}}
	f := NewFinalizer(llm, testLogger())

	out := f.Assess(context.Background(), scoredSession())
	require.NotNil(t, out.AverageScore)
	assert.InDelta(t, 7.0, *out.AverageScore, 1e-9)
	assert.Equal(t, "Clear communicator with solid fundamentals.", out.Summary)
	assert.Equal(t, "Yes - advance to the onsite round.", out.Recommendation)
}

func TestFinalizer_FreeFormReplyBecomesSummary(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) {
		return "The candidate did fine overall.", nil
	}}
	f := NewFinalizer(llm, testLogger())

	out := f.Assess(context.Background(), scoredSession())
	assert.Equal(t, "The candidate did fine overall.", out.Summary)
	assert.Equal(t, fallbackRecommendation, out.Recommendation)
}

func TestFinalizer_ModelErrorDegradesToFallbacks(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "", errors.New("down") }}
	f := NewFinalizer(llm, testLogger())

	out := f.Assess(context.Background(), scoredSession())
	require.NotNil(t, out.AverageScore, "scores survive a wrap-up failure")
	assert.Equal(t, fallbackSummary, out.Summary)
	assert.Equal(t, fallbackRecommendation, out.Recommendation)
	assert.NotNil(t, out.StageBreakdown)
}

func TestFinalizer_PromptMentionsStageAverages(t *testing.T) {
	var prompt string
	llm := &fakeLLM{fn: func(p string) (string, error) {
		prompt = p
		return "Summary: ok\nRecommendation: No - not yet.", nil
	}}
	f := NewFinalizer(llm, testLogger())

	f.Assess(context.Background(), scoredSession())
	assert.Contains(t, prompt, "average score of 7.0")
	assert.Contains(t, prompt, "introduction")
}
