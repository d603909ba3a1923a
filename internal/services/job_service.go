package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hirevox/hirevox/internal/models"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
	"github.com/hirevox/hirevox/internal/utils"
)

// NewResumeEntry is one pre-screened resume attached at job creation.
// Parsing, upload and match scoring happen in the screening pipeline
// upstream; this service only records the results.
type NewResumeEntry struct {
	ResumeID  string  `json:"resume_id"`
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	Text      string  `json:"text" binding:"required"`
}

type JobService interface {
	Create(ctx context.Context, recruiterID, description string, resumes []NewResumeEntry) (*models.JobProfile, error)
	Get(ctx context.Context, jobID string) (*models.JobProfile, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobProfile, error)
}

type jobService struct {
	jobs mongorepo.JobRepository
}

func NewJobService(jobs mongorepo.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, recruiterID, description string, resumes []NewResumeEntry) (*models.JobProfile, error) {
	const op = "JobService.Create"

	if recruiterID == "" || description == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id and description are required", nil)
	}

	entries := make([]models.ScoredResume, 0, len(resumes))
	for _, r := range resumes {
		id := r.ResumeID
		if id == "" {
			id = uuid.NewString()
		}
		entries = append(entries, models.ScoredResume{
			ResumeID:  id,
			Name:      r.Name,
			Email:     r.Email,
			Score:     r.Score,
			Reasoning: r.Reasoning,
			Text:      r.Text,
		})
	}

	job := &models.JobProfile{
		RecruiterID:   recruiterID,
		Description:   description,
		ScoredResumes: entries,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.JobProfile, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

func (s *jobService) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobProfile, error) {
	const op = "JobService.ListByRecruiter"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}

	jobs, err := s.jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return jobs, nil
}
