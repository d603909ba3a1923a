package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hirevox/hirevox/internal/api/handlers"
	"github.com/hirevox/hirevox/internal/api/middleware"
)

type Deps struct {
	Job       *handlers.JobHandler
	Session   *handlers.SessionHandler
	Candidate *handlers.InterviewWSHandler
	Monitor   *handlers.MonitorWSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Candidate WebSocket. No JWT: candidates arrive via invite links and
	// the schedule window is the gate.
	r.GET("/ws/interview/:job_id/:resume_id", d.Candidate.Interview)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/jobs", d.Job.Create)
	auth.GET("/jobs", d.Job.List)
	auth.GET("/jobs/:job_id/interview-stats", d.Job.InterviewStats)
	auth.POST("/schedule-interview", d.Job.Schedule)
	auth.POST("/send-invites", d.Job.SendInvites)

	auth.GET("/interview/session/:session_id", d.Session.Get)
	auth.GET("/interview/session/:session_id/transcript", d.Session.Transcript)
	auth.GET("/interview/resume/:resume_id/latest", d.Session.LatestByResume)

	auth.POST("/admin/reset-interview/:session_id", middleware.RequireAdmin(), d.Session.Reset)

	// Recruiter live view
	auth.GET("/ws/monitor/:session_id", d.Monitor.Monitor)
}
