package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/providers/llm"
)

const (
	fallbackSummary        = "Not enough scored answers to generate a summary."
	fallbackRecommendation = "Insufficient data to make a recommendation."
)

// Outcome is the terminal assessment of one interview.
type Outcome struct {
	AverageScore   *float64
	StageBreakdown map[string]float64
	Summary        string
	Recommendation string
}

// Finalizer computes the aggregate outcome of a finished session. The model
// part is best-effort: a failure degrades to fixed texts, never to an error,
// so finalization always completes.
type Finalizer struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewFinalizer(provider llm.Provider, log *logrus.Logger) *Finalizer {
	return &Finalizer{llm: provider, log: log}
}

func (f *Finalizer) Assess(ctx context.Context, s *Session) Outcome {
	out := Outcome{
		AverageScore:   s.AverageScore(),
		StageBreakdown: s.StageBreakdown(),
		Summary:        fallbackSummary,
		Recommendation: fallbackRecommendation,
	}

	if out.AverageScore == nil {
		return out
	}

	summary, rec, err := f.assessWithModel(ctx, s, *out.AverageScore)
	if err != nil {
		f.log.WithError(err).Warn("wrap-up generation failed, using fallback texts")
		return out
	}
	if summary != "" {
		out.Summary = summary
	}
	if rec != "" {
		out.Recommendation = rec
	}
	return out
}

func (f *Finalizer) assessWithModel(ctx context.Context, s *Session, avg float64) (summary, recommendation string, err error) {
	var b strings.Builder
	fmt.Fprintf(&b, "A candidate finished an interview with an average score of %.1f/10 across %d answered questions.\n", avg, len(s.History))
	if bd := s.StageBreakdown(); len(bd) > 0 {
		b.WriteString("Per-stage averages:\n")
		for _, st := range s.Tracker().Stages() {
			if v, ok := bd[st.Name]; ok {
				fmt.Fprintf(&b, "- %s: %.1f\n", st.Name, v)
			}
		}
	}
	b.WriteString("\nSummarize the candidate's strengths and growth areas in 2-4 sentences, ")
	b.WriteString("then state whether they should advance to the next round.\n\n")
	b.WriteString("Output format:\nSummary: <text>\nRecommendation: <Yes|No> - <one sentence justification>")

	text, err := f.llm.Generate(ctx, b.String())
	if err != nil {
		return "", "", err
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			summary = strings.TrimSpace(line[len("summary:"):])
		case strings.HasPrefix(lower, "recommendation:"):
			recommendation = strings.TrimSpace(line[len("recommendation:"):])
		}
	}

	// Models sometimes ignore the format; keep the whole reply as summary then.
	if summary == "" && recommendation == "" {
		summary = strings.TrimSpace(text)
	}
	return summary, recommendation, nil
}
