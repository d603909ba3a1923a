package services

import (
	"context"
	"errors"
	"time"

	"github.com/hirevox/hirevox/internal/cache"
	"github.com/hirevox/hirevox/internal/models"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
	"github.com/hirevox/hirevox/internal/utils"
)

const sessionCacheTTL = 5 * time.Minute

// InterviewService covers the query and admin surface around interview
// sessions; the live loop itself is the interview runner.
type InterviewService interface {
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSessionDoc, error)
	LatestSessionByResume(ctx context.Context, resumeID string) (*models.InterviewSessionDoc, error)
	Schedule(ctx context.Context, jobID string, resumeIDs []string, start, end time.Time) error
	Reset(ctx context.Context, sessionID string) error
	StatsByJob(ctx context.Context, jobID string) (*mongorepo.JobInterviewStats, error)
}

type interviewService struct {
	sessions mongorepo.SessionRepository
	jobs     mongorepo.JobRepository
	cache    cache.Cache
}

func NewInterviewService(sessions mongorepo.SessionRepository, jobs mongorepo.JobRepository, c cache.Cache) InterviewService {
	return &interviewService{sessions: sessions, jobs: jobs, cache: c}
}

func sessionCacheKey(sessionID string) string { return "session:" + sessionID }

func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.InterviewSessionDoc, error) {
	const op = "InterviewService.GetSession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if s.cache != nil {
		var cached models.InterviewSessionDoc
		if hit, _ := s.cache.GetJSON(ctx, sessionCacheKey(sessionID), &cached); hit {
			return &cached, nil
		}
	}

	doc, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}

	// only finished sessions are stable enough to cache
	if s.cache != nil && doc.Status == models.SessionStatusEnded {
		_ = s.cache.SetJSON(ctx, sessionCacheKey(sessionID), doc, sessionCacheTTL)
	}
	return doc, nil
}

func (s *interviewService) LatestSessionByResume(ctx context.Context, resumeID string) (*models.InterviewSessionDoc, error) {
	const op = "InterviewService.LatestSessionByResume"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	doc, err := s.sessions.LatestByResumeID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no interview session for this resume", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return doc, nil
}

func (s *interviewService) Schedule(ctx context.Context, jobID string, resumeIDs []string, start, end time.Time) error {
	const op = "InterviewService.Schedule"

	if jobID == "" || len(resumeIDs) == 0 {
		return utils.E(utils.CodeInvalidArgument, op, "job_id and resume_ids are required", nil)
	}
	if !start.Before(end) {
		return utils.E(utils.CodeInvalidArgument, op, "start_time must be before end_time", nil)
	}

	for _, rid := range resumeIDs {
		if err := s.jobs.SetSchedule(ctx, jobID, rid, start, end); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "job or resume not found: "+rid, err)
			}
			return utils.E(utils.CodeInternal, op, "failed to set schedule", err)
		}
	}
	return nil
}

// Reset deletes the session and clears the completion flag so the candidate
// can be re-interviewed with a fresh record.
func (s *interviewService) Reset(ctx context.Context, sessionID string) error {
	const op = "InterviewService.Reset"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "interview session not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete session", err)
	}

	if err := s.jobs.ClearInterviewResult(ctx, sessionID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear interview flags", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, sessionCacheKey(sessionID))
	}
	return nil
}

func (s *interviewService) StatsByJob(ctx context.Context, jobID string) (*mongorepo.JobInterviewStats, error) {
	const op = "InterviewService.StatsByJob"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	out, err := s.sessions.StatsByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to aggregate interview stats", err)
	}
	return out, nil
}
