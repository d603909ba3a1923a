package interview

import (
	"strings"
	"time"
)

// terminationPhrases end the interview immediately when received as an answer.
var terminationPhrases = map[string]struct{}{
	"quit":          {},
	"exit":          {},
	"end interview": {},
}

// IsTerminationPhrase reports whether an answer asks to end the interview.
func IsTerminationPhrase(answer string) bool {
	_, ok := terminationPhrases[strings.ToLower(strings.TrimSpace(answer))]
	return ok
}

// Turn is one question/answer/score triple. Score stays nil when the model
// could not rate the answer; nil is excluded from every average.
type Turn struct {
	QuestionNumber int
	Question       string
	Answer         string
	Score          *int
	Stage          string
	AskedAt        time.Time
	AnsweredAt     time.Time
}

// Session is the in-memory state of one interview attempt, owned exclusively
// by a single connection for its lifetime. It holds no clients; question
// generation and scoring are separate services acting on it.
//
// State is derived, never stored: not started while QuestionsAsked == 0,
// complete once QuestionsAsked >= MaxQuestions.
type Session struct {
	JobDescription   string
	CandidateProfile string
	MaxQuestions     int

	tracker *StageTracker

	QuestionsAsked int
	History        []Turn
}

func NewSession(jobDescription, candidateProfile string, maxQuestions int) *Session {
	if maxQuestions < 1 {
		maxQuestions = 1
	}
	return &Session{
		JobDescription:   jobDescription,
		CandidateProfile: candidateProfile,
		MaxQuestions:     maxQuestions,
		tracker:          NewStageTracker(DefaultStages(), maxQuestions),
	}
}

func (s *Session) Tracker() *StageTracker { return s.tracker }

// CurrentStage is the stage of the most recently emitted question, or the
// opening stage before any question was asked.
func (s *Session) CurrentStage() StageDefinition {
	return s.tracker.StageFor(s.QuestionsAsked)
}

func (s *Session) CurrentStageIndex() int {
	return s.tracker.StageIndex(s.QuestionsAsked)
}

// NoteQuestion records that a question was emitted and opens a turn for it.
// This is the only place QuestionsAsked advances; answers never consume a
// question slot on their own.
func (s *Session) NoteQuestion(question string) Turn {
	s.QuestionsAsked++
	t := Turn{
		QuestionNumber: s.QuestionsAsked,
		Question:       question,
		Stage:          s.CurrentStage().Name,
		AskedAt:        time.Now().UTC(),
	}
	return t
}

// RecordAnswer completes a turn and appends it to history. The turn keeps the
// stage of the question it answers, not the stage about to begin.
func (s *Session) RecordAnswer(t Turn, answer string, score *int) Turn {
	t.Answer = answer
	t.Score = score
	t.AnsweredAt = time.Now().UTC()
	s.History = append(s.History, t)
	return t
}

func (s *Session) IsComplete() bool {
	return s.QuestionsAsked >= s.MaxQuestions
}

// AverageScore is the mean of present scores, nil when none exist. Absent
// scores are absences, never zeros.
func (s *Session) AverageScore() *float64 {
	sum, n := 0, 0
	for _, t := range s.History {
		if t.Score != nil {
			sum += *t.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// StageBreakdown maps stage name to the mean score of its answered questions.
// Stages with no scored answers are omitted.
func (s *Session) StageBreakdown() map[string]float64 {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, t := range s.History {
		if t.Score == nil {
			continue
		}
		sums[t.Stage] += *t.Score
		counts[t.Stage]++
	}
	if len(counts) == 0 {
		return nil
	}
	out := make(map[string]float64, len(counts))
	for name, n := range counts {
		out[name] = float64(sums[name]) / float64(n)
	}
	return out
}
