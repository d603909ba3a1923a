package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirevox/hirevox/internal/services"
	"github.com/hirevox/hirevox/internal/utils"
)

type JobHandler struct {
	jobs       services.JobService
	interviews services.InterviewService
	invites    services.InviteService
}

func NewJobHandler(jobs services.JobService, interviews services.InterviewService, invites services.InviteService) *JobHandler {
	return &JobHandler{jobs: jobs, interviews: interviews, invites: invites}
}

type createJobRequest struct {
	Description string                    `json:"description" binding:"required"`
	Resumes     []services.NewResumeEntry `json:"resumes"`
}

// Create registers a job profile with its pre-screened resumes.
func (h *JobHandler) Create(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), uid, req.Description, req.Resumes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// List returns the caller's job profiles.
func (h *JobHandler) List(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobs.ListByRecruiter(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// InterviewStats aggregates session outcomes for one job.
func (h *JobHandler) InterviewStats(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	stats, err := h.interviews.StatsByJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type scheduleRequest struct {
	JobID     string    `json:"job_id" binding:"required"`
	ResumeIDs []string  `json:"resume_ids" binding:"required"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
}

// Schedule opens an interview window for the selected candidates.
func (h *JobHandler) Schedule(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Schedule", "invalid request body", err))
		return
	}

	if err := h.interviews.Schedule(c.Request.Context(), req.JobID, req.ResumeIDs, req.Start, req.End); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduled": len(req.ResumeIDs)})
}

type sendInvitesRequest struct {
	JobID     string   `json:"job_id" binding:"required"`
	ResumeIDs []string `json:"resume_ids" binding:"required"`
}

// SendInvites emails interview links to the selected candidates.
func (h *JobHandler) SendInvites(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req sendInvitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.SendInvites", "invalid request body", err))
		return
	}

	report, err := h.invites.SendInvites(c.Request.Context(), req.JobID, req.ResumeIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
