package interview

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM scripts model replies for the whole package's tests.
type fakeLLM struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string) (string, error)
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(prompt)
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestGenerator(llm *fakeLLM) *QuestionGenerator {
	g := NewQuestionGenerator(llm, testLogger())
	g.RetryInterval = time.Millisecond
	return g
}

func TestGenerator_FirstQuestionIsFixed(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "ignored", nil }}
	g := newTestGenerator(llm)
	s := NewSession("jd", "cv", 6)

	q := g.NextQuestion(context.Background(), s)
	assert.Equal(t, openingQuestion, q)
	assert.Equal(t, 0, llm.callCount(), "the opening never hits the model")
}

func TestGenerator_UsesModelReply(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) {
		return "What was your most impactful project?", nil
	}}
	g := newTestGenerator(llm)

	s := NewSession("jd", "cv", 6)
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", nil)

	q := g.NextQuestion(context.Background(), s)
	assert.Equal(t, "What was your most impactful project?", q)
	assert.Equal(t, 1, llm.callCount())
}

func TestGenerator_RetriesThenSucceeds(t *testing.T) {
	var n int
	llm := &fakeLLM{fn: func(string) (string, error) {
		n++
		if n < 3 {
			return "", errors.New("overloaded")
		}
		return "Third time works.", nil
	}}
	g := newTestGenerator(llm)

	s := NewSession("jd", "cv", 6)
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", nil)

	q := g.NextQuestion(context.Background(), s)
	assert.Equal(t, "Third time works.", q)
	assert.Equal(t, 3, llm.callCount())
}

func TestGenerator_FallsBackAfterRetryBudget(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "", errors.New("down") }}
	g := newTestGenerator(llm)

	s := NewSession("jd", "cv", 6) // 1 per stage
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", nil)

	// the next question is number 2, stage "experience"
	q := g.NextQuestion(context.Background(), s)
	assert.Equal(t, FallbackQuestion("experience"), q)
	assert.Equal(t, generateAttempts, llm.callCount())
}

func TestGenerator_EmptyReplyCountsAsFailure(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "   ", nil }}
	g := newTestGenerator(llm)

	s := NewSession("jd", "cv", 6)
	s.RecordAnswer(s.NoteQuestion("q1"), "a1", nil)

	q := g.NextQuestion(context.Background(), s)
	assert.Equal(t, FallbackQuestion("experience"), q)
	assert.Equal(t, generateAttempts, llm.callCount())
}

func TestGenerator_PromptCarriesStageAndContext(t *testing.T) {
	var prompt string
	llm := &fakeLLM{fn: func(p string) (string, error) {
		prompt = p
		return "Next question.", nil
	}}
	g := newTestGenerator(llm)

	s := NewSession("senior gopher wanted", "ten years of Go", 6)
	s.RecordAnswer(s.NoteQuestion("What brought you here?"), "curiosity", nil)

	g.NextQuestion(context.Background(), s)

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "Current stage: experience")
	assert.Contains(t, prompt, "senior gopher wanted")
	assert.Contains(t, prompt, "ten years of Go")
	assert.Contains(t, prompt, "A: curiosity")
	assert.Contains(t, prompt, "asked 1 of 6 questions")
}

func TestPolishQuestion(t *testing.T) {
	cases := map[string]string{
		"Great question! What is a goroutine":           "What is a goroutine?",
		"\"How do channels work?\"":                     "How do channels work?",
		"I see. Interesting! Tell me about deadlocks.":  "Tell me about deadlocks.",
		"Plain question without punctuation":            "Plain question without punctuation?",
		"Already fine?":                                 "Already fine?",
	}
	for in, want := range cases {
		assert.Equal(t, want, polishQuestion(in), in)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	out := truncateRunes(strings.Repeat("é", 50), 10)
	assert.Equal(t, 11, len([]rune(out)), "10 runes plus ellipsis")
}
