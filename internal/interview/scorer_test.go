package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreWith(t *testing.T, reply string, err error) *int {
	t.Helper()
	llm := &fakeLLM{fn: func(string) (string, error) { return reply, err }}
	sc := NewAnswerScorer(llm, testLogger())
	return sc.Score(context.Background(), "q", "a", DefaultStages()[0])
}

func TestScorer_ParsesPlainNumber(t *testing.T) {
	got := scoreWith(t, "8", nil)
	require.NotNil(t, got)
	assert.Equal(t, 8, *got)
}

func TestScorer_ParsesNumberInProse(t *testing.T) {
	got := scoreWith(t, "Score: 9/10, a strong answer.", nil)
	require.NotNil(t, got)
	assert.Equal(t, 9, *got)
}

func TestScorer_ClampsRange(t *testing.T) {
	got := scoreWith(t, "0", nil)
	require.NotNil(t, got)
	assert.Equal(t, 1, *got)

	got = scoreWith(t, "42", nil)
	require.NotNil(t, got)
	assert.Equal(t, 10, *got)
}

func TestScorer_NilOnUnparseableReply(t *testing.T) {
	assert.Nil(t, scoreWith(t, "an excellent answer", nil))
}

func TestScorer_NilOnModelError(t *testing.T) {
	assert.Nil(t, scoreWith(t, "", errors.New("unavailable")))
}

func TestScorer_SingleShot(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "", errors.New("down") }}
	sc := NewAnswerScorer(llm, testLogger())

	sc.Score(context.Background(), "q", "a", DefaultStages()[0])
	assert.Equal(t, 1, llm.callCount(), "scoring never retries")
}

func TestFirstInt(t *testing.T) {
	n, ok := firstInt("7")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = firstInt("rating 10 of 10")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = firstInt("no digits here")
	assert.False(t, ok)
}
