package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/providers/llm"
)

const openingQuestion = "Hello! I'm excited to speak with you today about this opportunity. " +
	"Could you please introduce yourself and tell me why this role interests you?"

const (
	maxContextRunes    = 2000
	maxRecentPairRunes = 600

	generateAttempts = 3 // 1 call + 2 retries
)

// fillerOpeners are chatty lead-ins models like to produce; stripped so the
// candidate only sees the question.
var fillerOpeners = []string{
	"Great question!",
	"Great answer!",
	"That's a great answer.",
	"I see.",
	"Interesting!",
	"Thanks for sharing.",
	"Thank you for sharing.",
	"Okay.",
	"Alright.",
	"Sure.",
}

// QuestionGenerator builds stage-aware prompts and asks the model for the
// next question. It never fails: after the retry budget it serves the static
// per-stage fallback.
type QuestionGenerator struct {
	llm llm.Provider
	log *logrus.Logger

	// RetryInterval is the base backoff delay between attempts, doubling each
	// retry. Overridden in tests.
	RetryInterval time.Duration
}

func NewQuestionGenerator(provider llm.Provider, log *logrus.Logger) *QuestionGenerator {
	return &QuestionGenerator{
		llm:           provider,
		log:           log,
		RetryInterval: time.Second,
	}
}

// NextQuestion returns the next question for the session. The first question
// is fixed so the interview always starts, even with the model unreachable.
// The caller records the question via Session.NoteQuestion.
func (g *QuestionGenerator) NextQuestion(ctx context.Context, s *Session) string {
	if s.QuestionsAsked == 0 {
		return openingQuestion
	}

	stage := s.Tracker().StageFor(s.QuestionsAsked + 1)
	prompt := g.buildPrompt(s, stage)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.RetryInterval
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	var out string
	op := func() error {
		text, err := g.llm.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("empty question from model")
		}
		out = text
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, generateAttempts-1), ctx))
	if err != nil {
		g.log.WithError(err).WithField("stage", stage.Name).Warn("question generation failed, using fallback")
		return FallbackQuestion(stage.Name)
	}

	if q := polishQuestion(out); q != "" {
		return q
	}
	return FallbackQuestion(stage.Name)
}

func (g *QuestionGenerator) buildPrompt(s *Session, stage StageDefinition) string {
	var b strings.Builder

	b.WriteString("You are an AI conducting a structured, professional job interview. ")
	b.WriteString("Ask one concise question at a time (2-3 sentences) that cannot be answered with a plain yes or no. ")
	b.WriteString("Use a friendly but professional tone and build on the candidate's previous answer.\n\n")

	fmt.Fprintf(&b, "Current stage: %s\nStage purpose: %s\nQuestioning style: %s\n\n", stage.Name, stage.Purpose, stage.Style)

	fmt.Fprintf(&b, "Job description:\n%s\n\n", truncateRunes(s.JobDescription, maxContextRunes))
	fmt.Fprintf(&b, "Candidate background:\n%s\n\n", truncateRunes(s.CandidateProfile, maxContextRunes))

	if last := lastAnsweredTurn(s); last != nil {
		fmt.Fprintf(&b, "Most recent exchange:\nQ: %s\nA: %s\n\n",
			truncateRunes(last.Question, maxRecentPairRunes),
			truncateRunes(last.Answer, maxRecentPairRunes))
	}

	if len(s.History) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range s.History {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", t.Question, t.Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "You have asked %d of %d questions. Reply with only the next question.", s.QuestionsAsked, s.MaxQuestions)
	return b.String()
}

func lastAnsweredTurn(s *Session) *Turn {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// polishQuestion strips filler openers and guarantees terminal punctuation.
func polishQuestion(q string) string {
	q = strings.TrimSpace(q)
	q = strings.Trim(q, "\"")

	for changed := true; changed; {
		changed = false
		for _, f := range fillerOpeners {
			if len(q) >= len(f) && strings.EqualFold(q[:len(f)], f) {
				q = strings.TrimSpace(q[len(f):])
				changed = true
			}
		}
	}

	if q == "" {
		return q
	}
	switch q[len(q)-1] {
	case '.', '?', '!':
	default:
		q += "?"
	}
	return q
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
