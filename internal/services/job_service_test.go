package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevox/hirevox/internal/models"
	"github.com/hirevox/hirevox/internal/utils"
)

func TestJobCreate_Validation(t *testing.T) {
	svc := NewJobService(&stubJobs{})

	_, err := svc.Create(context.Background(), "", "desc", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Create(context.Background(), "rec-1", "", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestJobCreate_AssignsResumeIDs(t *testing.T) {
	var created *models.JobProfile
	jobs := &stubJobs{createFn: func(_ context.Context, j *models.JobProfile) error {
		created = j
		return nil
	}}
	svc := NewJobService(jobs)

	job, err := svc.Create(context.Background(), "rec-1", "backend engineer", []NewResumeEntry{
		{Name: "Ada", Text: "resume text"},
		{ResumeID: "keep-me", Name: "Tim", Text: "more text"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Len(t, job.ScoredResumes, 2)

	assert.NotEmpty(t, job.ScoredResumes[0].ResumeID, "missing ids are generated")
	assert.Equal(t, "keep-me", job.ScoredResumes[1].ResumeID)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestJobGet_MapsNotFound(t *testing.T) {
	jobs := &stubJobs{getByID: func(context.Context, string) (*models.JobProfile, error) {
		return nil, utils.ErrNotFound
	}}
	svc := NewJobService(jobs)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
