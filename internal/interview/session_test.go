package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNewSession_ClampsMaxQuestions(t *testing.T) {
	s := NewSession("jd", "cv", 0)
	assert.Equal(t, 1, s.MaxQuestions)

	s = NewSession("jd", "cv", -4)
	assert.Equal(t, 1, s.MaxQuestions)
}

func TestSession_NoteQuestionAdvancesCount(t *testing.T) {
	s := NewSession("jd", "cv", 12)

	turn := s.NoteQuestion("q1")
	assert.Equal(t, 1, turn.QuestionNumber)
	assert.Equal(t, 1, s.QuestionsAsked)
	assert.Equal(t, "introduction", turn.Stage)

	s.NoteQuestion("q2")
	turn = s.NoteQuestion("q3")
	assert.Equal(t, 3, turn.QuestionNumber)
	assert.Equal(t, "experience", turn.Stage, "third of twelve questions is in the second stage")
}

func TestSession_AnswerKeepsQuestionStage(t *testing.T) {
	s := NewSession("jd", "cv", 12)

	turn := s.NoteQuestion("q1")
	// the next stage would already be different by the time the answer lands;
	// the recorded turn must keep the stage of the question it answers
	s.NoteQuestion("q2")
	s.NoteQuestion("q3")

	done := s.RecordAnswer(turn, "my answer", intPtr(7))
	assert.Equal(t, "introduction", done.Stage)
	assert.Equal(t, 1, done.QuestionNumber)

	require.Len(t, s.History, 1)
	assert.Equal(t, "my answer", s.History[0].Answer)
}

func TestSession_AnswersNeverConsumeSlots(t *testing.T) {
	s := NewSession("jd", "cv", 5)

	turn := s.NoteQuestion("q1")
	s.RecordAnswer(turn, "a1", nil)
	s.RecordAnswer(turn, "a1 again", nil)

	assert.Equal(t, 1, s.QuestionsAsked)
	assert.False(t, s.IsComplete())
}

func TestSession_IsCompleteBoundary(t *testing.T) {
	s := NewSession("jd", "cv", 2)

	assert.False(t, s.IsComplete())
	s.NoteQuestion("q1")
	assert.False(t, s.IsComplete())
	s.NoteQuestion("q2")
	assert.True(t, s.IsComplete())
}

func TestSession_AverageScoreNilWithoutScores(t *testing.T) {
	s := NewSession("jd", "cv", 3)

	turn := s.NoteQuestion("q1")
	s.RecordAnswer(turn, "a1", nil)

	assert.Nil(t, s.AverageScore(), "absent scores are absences, not zeros")
	assert.Nil(t, s.StageBreakdown())
}

func TestSession_AverageSkipsUnscored(t *testing.T) {
	s := NewSession("jd", "cv", 6)

	t1 := s.NoteQuestion("q1")
	s.RecordAnswer(t1, "a1", intPtr(8))
	t2 := s.NoteQuestion("q2")
	s.RecordAnswer(t2, "a2", nil)
	t3 := s.NoteQuestion("q3")
	s.RecordAnswer(t3, "a3", intPtr(4))

	avg := s.AverageScore()
	require.NotNil(t, avg)
	assert.InDelta(t, 6.0, *avg, 1e-9)
}

func TestSession_StageBreakdown(t *testing.T) {
	s := NewSession("jd", "cv", 12) // 2 per stage

	t1 := s.NoteQuestion("q1")
	s.RecordAnswer(t1, "a1", intPtr(6))
	t2 := s.NoteQuestion("q2")
	s.RecordAnswer(t2, "a2", intPtr(8))
	t3 := s.NoteQuestion("q3")
	s.RecordAnswer(t3, "a3", nil) // experience, unscored

	bd := s.StageBreakdown()
	require.NotNil(t, bd)
	assert.InDelta(t, 7.0, bd["introduction"], 1e-9)
	_, ok := bd["experience"]
	assert.False(t, ok, "stages without scored answers are omitted")
}

func TestIsTerminationPhrase(t *testing.T) {
	for _, in := range []string{"quit", "Quit", " EXIT ", "end interview", "End Interview"} {
		assert.True(t, IsTerminationPhrase(in), in)
	}
	for _, in := range []string{"", "quitting", "I want to end the interview", "exit strategy"} {
		assert.False(t, IsTerminationPhrase(in), in)
	}
}
