package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/events"
	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/models"
	"github.com/hirevox/hirevox/internal/providers/stt"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
)

// InterviewWSHandler owns one candidate connection per interview attempt:
// it validates the schedule window, creates the session record, and hands the
// connection to the interview runner.
type InterviewWSHandler struct {
	jobs     mongorepo.JobRepository
	sessions mongorepo.SessionRepository

	generator *interview.QuestionGenerator
	scorer    *interview.AnswerScorer
	finalizer *interview.Finalizer

	stt     stt.Provider      // optional
	turns   interview.TurnLogger
	archive interview.Archiver
	events  events.Sink

	maxQuestions int
	maxDuration  time.Duration

	log      *logrus.Logger
	upgrader websocket.Upgrader
}

type InterviewWSConfig struct {
	Jobs     mongorepo.JobRepository
	Sessions mongorepo.SessionRepository

	Generator *interview.QuestionGenerator
	Scorer    *interview.AnswerScorer
	Finalizer *interview.Finalizer

	STT     stt.Provider
	Turns   interview.TurnLogger
	Archive interview.Archiver
	Events  events.Sink

	MaxQuestions int
	MaxDuration  time.Duration

	Log *logrus.Logger
}

func NewInterviewWSHandler(cfg InterviewWSConfig) *InterviewWSHandler {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 8
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = interview.DefaultMaxDuration
	}
	return &InterviewWSHandler{
		jobs:         cfg.Jobs,
		sessions:     cfg.Sessions,
		generator:    cfg.Generator,
		scorer:       cfg.Scorer,
		finalizer:    cfg.Finalizer,
		stt:          cfg.STT,
		turns:        cfg.Turns,
		archive:      cfg.Archive,
		events:       cfg.Events,
		maxQuestions: cfg.MaxQuestions,
		maxDuration:  cfg.MaxDuration,
		log:          cfg.Log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

// wsConn serializes writes; gorilla allows one concurrent writer only.
type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.c.ReadMessage()
	return data, err
}

func (w *wsConn) Send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (w *wsConn) Close() error {
	return w.c.Close()
}

type wsRejection struct {
	Error    string     `json:"error"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndedAt  *time.Time `json:"ended_at,omitempty"`
}

// Interview is the candidate endpoint. The link arrives by invite email, so
// it carries no recruiter auth; job and resume ids gate access like the
// invite itself does.
func (h *InterviewWSHandler) Interview(c *gin.Context) {
	jobID := c.Param("job_id")
	resumeID := c.Param("resume_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response in most cases
		return
	}
	wc := &wsConn{c: conn}

	reject := func(r wsRejection) {
		_ = wc.Send(r)
		_ = wc.Close()
	}

	ctx := c.Request.Context()

	job, err := h.jobs.GetByID(ctx, jobID)
	if err != nil {
		reject(wsRejection{Error: "Job not found"})
		return
	}
	entry, ok := job.Entry(resumeID)
	if !ok {
		reject(wsRejection{Error: "Resume not found"})
		return
	}

	if entry.InterviewDone {
		reject(wsRejection{Error: "Interview already completed"})
		return
	}

	// schedule window, fail closed
	now := time.Now().UTC()
	switch {
	case entry.InterviewStart == nil || entry.InterviewEnd == nil:
		reject(wsRejection{Error: "Interview is not scheduled"})
		return
	case now.Before(*entry.InterviewStart):
		reject(wsRejection{Error: "Interview has not started yet", StartsAt: entry.InterviewStart})
		return
	case now.After(*entry.InterviewEnd):
		reject(wsRejection{Error: "Interview window has closed", EndedAt: entry.InterviewEnd})
		return
	}

	doc := &models.InterviewSessionDoc{
		SessionID:      uuid.NewString(),
		JobID:          jobID,
		ResumeID:       resumeID,
		Status:         models.SessionStatusActive,
		ScheduledStart: entry.InterviewStart,
		ScheduledEnd:   entry.InterviewEnd,
		StartedAt:      now,
		History:        []models.HistoryEntry{},
	}
	if err := h.sessions.Create(ctx, doc); err != nil {
		h.log.WithError(err).Error("failed to create session record")
		reject(wsRejection{Error: "Could not start interview"})
		return
	}

	runner := &interview.Runner{
		Conn: wc,
		Log: h.log.WithFields(logrus.Fields{
			"session_id": doc.SessionID,
			"job_id":     jobID,
			"resume_id":  resumeID,
		}),
		Sess:        interview.NewSession(job.Description, entry.Text, h.maxQuestions),
		Doc:         doc,
		Sessions:    h.sessions,
		Jobs:        h.jobs,
		Generator:   h.generator,
		Scorer:      h.scorer,
		Finalizer:   h.finalizer,
		STT:         h.stt,
		Turns:       h.turns,
		Archive:     h.archive,
		Events:      h.events,
		MaxDuration: h.maxDuration,
	}

	runner.Run(ctx)
}
