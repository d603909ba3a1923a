package interview

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/providers/llm"
)

// AnswerScorer rates an answer 1-10 against the stage's evaluation focus.
// Scoring is single-shot: any model or parse failure yields no score rather
// than an error, and an absent score is excluded from averages downstream.
type AnswerScorer struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewAnswerScorer(provider llm.Provider, log *logrus.Logger) *AnswerScorer {
	return &AnswerScorer{llm: provider, log: log}
}

func (s *AnswerScorer) Score(ctx context.Context, question, answer string, stage StageDefinition) *int {
	prompt := fmt.Sprintf(
		"You are scoring one interview answer during the %s stage. Evaluation focus: %s.\n\n"+
			"Rate the answer on a 1-10 scale: 1-3 poor, 4-6 average, 7-8 good, 9-10 excellent.\n"+
			"Consider relevance, completeness, and the stage focus above.\n"+
			"Respond with only the number.\n\n"+
			"Question: %s\nAnswer: %s",
		stage.Name, stage.Focus, question, answer,
	)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.log.WithError(err).WithField("stage", stage.Name).Warn("answer scoring failed")
		return nil
	}

	n, ok := firstInt(text)
	if !ok {
		s.log.WithField("reply", truncateRunes(text, 80)).Warn("unparseable score reply")
		return nil
	}

	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return &n
}

// firstInt extracts the first run of digits from the model reply.
func firstInt(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(s[start:]))
		return n, err == nil
	}
	return 0, false
}
