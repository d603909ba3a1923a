package interview

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/events"
	"github.com/hirevox/hirevox/internal/models"
	"github.com/hirevox/hirevox/internal/providers/stt"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
)

// Conn is the candidate-facing connection as the runner sees it. The handler
// layer adapts a websocket to this; tests drive it directly.
type Conn interface {
	ReadMessage() ([]byte, error)
	Send(v any) error
	Close() error
}

// TurnLogger mirrors completed turns into the analytics transcript.
type TurnLogger interface {
	LogTurn(ctx context.Context, sessionID string, t Turn)
}

// Archiver stores the transcript export of a finished session.
type Archiver interface {
	Archive(ctx context.Context, sessionID string, s *Session) (url string, err error)
}

type clientMsg struct {
	Type string `json:"type"`

	// tab-switch
	Count int `json:"count"`
	// gaze
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
	// object-detect
	People int `json:"people"`
	Phones int `json:"phones"`
	// audio_answer
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`

	Answer string `json:"answer"`
}

type questionFrame struct {
	Text          string `json:"text"`
	QuestionCount int    `json:"question_count"`
	MaxQuestions  int    `json:"max_questions"`
	CurrentStage  string `json:"current_stage"`
	StageProgress string `json:"stage_progress"`
}

type errorFrame struct {
	Error string `json:"error"`
}

type wrapUpFrame struct {
	Text           string             `json:"text"`
	Summary        string             `json:"summary"`
	AverageScore   *float64           `json:"average_score"`
	StageBreakdown map[string]float64 `json:"stage_breakdown,omitempty"`
	Recommendation string             `json:"recommendation,omitempty"`
}

// Runner drives one interview attempt over one connection: receive loop,
// telemetry routing, scoring, persistence, deadline, and the single
// finalization every exit path converges on.
type Runner struct {
	Conn Conn
	Log  *logrus.Entry

	Sess *Session
	Doc  *models.InterviewSessionDoc

	Sessions  mongorepo.SessionRepository
	Jobs      mongorepo.JobRepository
	Generator *QuestionGenerator
	Scorer    *AnswerScorer
	Finalizer *Finalizer

	STT     stt.Provider // optional: spoken answers
	Turns   TurnLogger   // optional: Postgres transcript mirror
	Archive Archiver     // optional: GCS transcript export
	Events  events.Sink  // optional: recruiter live feed

	MaxDuration time.Duration

	// mu serializes answer processing, telemetry persistence and
	// finalization; the deadline callback and the receive loop both route
	// through it, so finalization never interleaves with an in-flight persist
	// and runs exactly once.
	mu        sync.Mutex
	finalized bool
	done      chan struct{}
	timer     *SessionTimer
	openTurn  Turn
	baseCtx   context.Context
}

// Wait returns a channel closed once finalization has completed. Safe to call
// before Run.
func (r *Runner) Wait() <-chan struct{} { return r.ensureDone() }

func (r *Runner) ensureDone() chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		r.done = make(chan struct{})
	}
	return r.done
}

func (r *Runner) Run(ctx context.Context) {
	r.ensureDone()
	// Finalization must outlive the request context: a dropped connection
	// still gets its terminal write.
	r.baseCtx = context.WithoutCancel(ctx)

	if r.MaxDuration <= 0 {
		r.MaxDuration = DefaultMaxDuration
	}
	r.timer = StartSessionTimer(r.MaxDuration, func() {
		r.finalize("deadline")
	})

	r.askNext(ctx)

	for {
		data, err := r.Conn.ReadMessage()
		if err != nil {
			r.finalize("disconnect")
			return
		}

		var msg clientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = r.Conn.Send(errorFrame{Error: "invalid json"})
			continue
		}

		switch msg.Type {
		case "tab-switch":
			r.recordTelemetry(ctx, msg)
		case "gaze":
			r.recordTelemetry(ctx, msg)
		case "object-detect":
			r.recordTelemetry(ctx, msg)
		case "not-looking":
			r.recordTelemetry(ctx, msg)

		case "audio_answer":
			answer, ok := r.transcribe(ctx, msg)
			if !ok {
				continue
			}
			if r.consumeAnswer(ctx, answer) {
				return
			}

		default:
			if r.consumeAnswer(ctx, msg.Answer) {
				return
			}
		}
	}
}

// consumeAnswer runs the answer path. Returns true when the interview reached
// a terminal condition and has been finalized.
func (r *Runner) consumeAnswer(ctx context.Context, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		// validation error, no question slot consumed
		_ = r.Conn.Send(errorFrame{Error: "Empty answer received"})
		return false
	}

	if IsTerminationPhrase(answer) {
		r.finalize("quit")
		return true
	}

	if r.processAnswer(ctx, answer) {
		r.finalize("completed")
		return true
	}
	return false
}

// processAnswer scores and persists one turn, then emits the next question.
// Returns true when the question budget is exhausted. Held under mu so the
// deadline cannot finalize mid-persist.
func (r *Runner) processAnswer(ctx context.Context, answer string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return false
	}

	turn := r.openTurn
	stage := r.Sess.Tracker().StageFor(turn.QuestionNumber)
	score := r.Scorer.Score(ctx, turn.Question, answer, stage)

	completed := r.Sess.RecordAnswer(turn, answer, score)

	entry := models.HistoryEntry{
		QuestionNumber: completed.QuestionNumber,
		Question:       completed.Question,
		Answer:         completed.Answer,
		Score:          completed.Score,
		Stage:          completed.Stage,
		Timestamp:      completed.AnsweredAt,
	}
	if err := r.Sessions.AppendHistory(ctx, r.Doc.SessionID, entry); err != nil {
		r.Log.WithError(err).Error("failed to persist history entry")
	}

	if r.Turns != nil {
		r.Turns.LogTurn(ctx, r.Doc.SessionID, completed)
	}
	r.publish(ctx, map[string]any{
		"type":            "answer_scored",
		"question_number": completed.QuestionNumber,
		"stage":           completed.Stage,
		"score":           completed.Score,
	})

	if r.Sess.IsComplete() {
		return true
	}

	r.askNextLocked(ctx)
	return false
}

func (r *Runner) askNext(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return
	}
	r.askNextLocked(ctx)
}

func (r *Runner) askNextLocked(ctx context.Context) {
	q := r.Generator.NextQuestion(ctx, r.Sess)
	r.openTurn = r.Sess.NoteQuestion(q)

	idx := r.Sess.CurrentStageIndex()
	total := len(r.Sess.Tracker().Stages())
	frame := questionFrame{
		Text:          q,
		QuestionCount: r.Sess.QuestionsAsked,
		MaxQuestions:  r.Sess.MaxQuestions,
		CurrentStage:  r.Sess.CurrentStage().Name,
		StageProgress: fmt.Sprintf("%d/%d", idx+1, total),
	}
	if err := r.Conn.Send(frame); err != nil {
		r.Log.WithError(err).Warn("failed to send question")
	}

	r.publish(ctx, map[string]any{
		"type":            "question",
		"question_number": r.Sess.QuestionsAsked,
		"stage":           frame.CurrentStage,
		"text":            q,
	})
}

func (r *Runner) recordTelemetry(ctx context.Context, msg clientMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return
	}

	now := time.Now().UTC()
	var err error
	switch msg.Type {
	case "tab-switch":
		err = r.Sessions.AppendTabEvent(ctx, r.Doc.SessionID, models.TabEvent{Count: msg.Count, Timestamp: now})
	case "gaze":
		err = r.Sessions.AppendGazeEvent(ctx, r.Doc.SessionID, models.GazeEvent{X: msg.X, Y: msg.Y, T: msg.T, Timestamp: now})
	case "object-detect":
		err = r.Sessions.AppendObjectEvent(ctx, r.Doc.SessionID, models.ObjectEvent{People: msg.People, Phones: msg.Phones, Timestamp: now})
	case "not-looking":
		err = r.Sessions.AppendWarningEvent(ctx, r.Doc.SessionID, models.WarningEvent{Kind: "not-looking", Timestamp: now})
	}
	if err != nil {
		r.Log.WithError(err).WithField("kind", msg.Type).Warn("failed to persist telemetry event")
	}

	r.publish(ctx, map[string]any{"type": "telemetry", "kind": msg.Type})
}

func (r *Runner) transcribe(ctx context.Context, msg clientMsg) (string, bool) {
	if r.STT == nil {
		_ = r.Conn.Send(errorFrame{Error: "audio answers are not supported"})
		return "", false
	}

	raw := msg.AudioBase64
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(audio) == 0 {
		_ = r.Conn.Send(errorFrame{Error: "invalid audio_base64"})
		return "", false
	}

	text, _, err := r.STT.Transcribe(ctx, audio, msg.Language)
	if err != nil {
		r.Log.WithError(err).Warn("answer transcription failed")
		_ = r.Conn.Send(errorFrame{Error: "could not transcribe audio answer"})
		return "", false
	}
	return text, true
}

// finalize is the single terminal routine. Every exit path (quit, budget,
// deadline, disconnect) lands here; the first caller wins and later callers
// return once the guard flag is set.
func (r *Runner) finalize(reason string) {
	r.mu.Lock()
	if r.finalized {
		r.mu.Unlock()
		return
	}
	r.finalized = true
	r.timer.Stop()

	ctx, cancel := context.WithTimeout(r.baseCtx, 30*time.Second)

	log := r.Log.WithField("reason", reason)
	log.Info("finalizing interview session")

	out := r.Finalizer.Assess(ctx, r.Sess)

	var transcriptURL string
	if r.Archive != nil {
		url, err := r.Archive.Archive(ctx, r.Doc.SessionID, r.Sess)
		if err != nil {
			log.WithError(err).Warn("transcript archive failed")
		} else {
			transcriptURL = url
		}
	}

	fin := mongorepo.Finalization{
		EndedAt:        time.Now().UTC(),
		AverageScore:   out.AverageScore,
		StageBreakdown: out.StageBreakdown,
		Summary:        out.Summary,
		Recommendation: out.Recommendation,
		TranscriptURL:  transcriptURL,
	}
	if err := r.Sessions.Finalize(ctx, r.Doc.SessionID, fin); err != nil {
		log.WithError(err).Error("failed to persist finalization")
	}
	if err := r.Jobs.MarkInterviewDone(ctx, r.Doc.JobID, r.Doc.ResumeID, r.Doc.SessionID); err != nil {
		log.WithError(err).Error("failed to mark interview done")
	}

	r.publish(ctx, map[string]any{
		"type":           "finalized",
		"reason":         reason,
		"average_score":  out.AverageScore,
		"recommendation": out.Recommendation,
	})

	_ = r.Conn.Send(wrapUpFrame{
		Text:           "Thank you for your time! Here's a brief wrap-up:",
		Summary:        out.Summary,
		AverageScore:   out.AverageScore,
		StageBreakdown: out.StageBreakdown,
		Recommendation: out.Recommendation,
	})
	_ = r.Conn.Close()

	cancel()
	r.mu.Unlock()
	close(r.done)
}

func (r *Runner) publish(ctx context.Context, payload any) {
	if r.Events == nil {
		return
	}
	r.Events.Publish(ctx, r.Doc.SessionID, payload)
}

// TranscriptJSON renders the session history for the archive export.
func TranscriptJSON(sessionID string, s *Session) ([]byte, error) {
	type exportTurn struct {
		QuestionNumber int    `json:"question_number"`
		Stage          string `json:"stage"`
		Question       string `json:"question"`
		Answer         string `json:"answer"`
		Score          *int   `json:"score,omitempty"`
	}
	export := struct {
		SessionID string       `json:"session_id"`
		Turns     []exportTurn `json:"turns"`
	}{SessionID: sessionID}

	for _, t := range s.History {
		export.Turns = append(export.Turns, exportTurn{
			QuestionNumber: t.QuestionNumber,
			Stage:          t.Stage,
			Question:       t.Question,
			Answer:         t.Answer,
			Score:          t.Score,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
