package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hirevox/hirevox/internal/services"
	"github.com/hirevox/hirevox/internal/utils"
)

type SessionHandler struct {
	interviews  services.InterviewService
	transcripts services.TranscriptService
}

func NewSessionHandler(interviews services.InterviewService, transcripts services.TranscriptService) *SessionHandler {
	return &SessionHandler{interviews: interviews, transcripts: transcripts}
}

// Get returns one session by its id, finished or in flight.
func (h *SessionHandler) Get(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	doc, err := h.interviews.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// LatestByResume returns the most recent session for a candidate, so the
// review screen works without knowing the session id.
func (h *SessionHandler) LatestByResume(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	doc, err := h.interviews.LatestSessionByResume(c.Request.Context(), c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Transcript lists the per-turn transcript rows for a session.
func (h *SessionHandler) Transcript(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	if h.transcripts == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "SessionHandler.Transcript", "transcript store is not configured", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	rows, err := h.transcripts.ListBySession(c.Request.Context(), c.Param("session_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

// Reset wipes a session and re-arms the candidate for another attempt.
// Admin only.
func (h *SessionHandler) Reset(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	if err := h.interviews.Reset(c.Request.Context(), c.Param("session_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
