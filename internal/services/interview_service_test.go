package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevox/hirevox/internal/models"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
	"github.com/hirevox/hirevox/internal/utils"
)

// stubSessions embeds the interface; only the stubbed methods are callable.
type stubSessions struct {
	mongorepo.SessionRepository

	getBySessionID   func(ctx context.Context, id string) (*models.InterviewSessionDoc, error)
	latestByResumeID func(ctx context.Context, id string) (*models.InterviewSessionDoc, error)
	deleteFn         func(ctx context.Context, id string) error
}

func (s *stubSessions) GetBySessionID(ctx context.Context, id string) (*models.InterviewSessionDoc, error) {
	return s.getBySessionID(ctx, id)
}

func (s *stubSessions) LatestByResumeID(ctx context.Context, id string) (*models.InterviewSessionDoc, error) {
	return s.latestByResumeID(ctx, id)
}

func (s *stubSessions) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubJobs struct {
	mongorepo.JobRepository

	setSchedule          func(ctx context.Context, jobID, resumeID string, start, end time.Time) error
	clearInterviewResult func(ctx context.Context, sessionID string) error
	getByID              func(ctx context.Context, jobID string) (*models.JobProfile, error)
	createFn             func(ctx context.Context, j *models.JobProfile) error
}

func (s *stubJobs) Create(ctx context.Context, j *models.JobProfile) error {
	return s.createFn(ctx, j)
}

func (s *stubJobs) SetSchedule(ctx context.Context, jobID, resumeID string, start, end time.Time) error {
	return s.setSchedule(ctx, jobID, resumeID, start, end)
}

func (s *stubJobs) ClearInterviewResult(ctx context.Context, sessionID string) error {
	return s.clearInterviewResult(ctx, sessionID)
}

func (s *stubJobs) GetByID(ctx context.Context, jobID string) (*models.JobProfile, error) {
	return s.getByID(ctx, jobID)
}

type memCache struct {
	data map[string][]byte
	dels []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.dels = append(c.dels, keys...)
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestGetSession_RequiresID(t *testing.T) {
	svc := NewInterviewService(&stubSessions{}, &stubJobs{}, nil)

	_, err := svc.GetSession(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGetSession_CacheHitSkipsRepo(t *testing.T) {
	c := newMemCache()
	require.NoError(t, c.SetJSON(context.Background(), "session:s1",
		&models.InterviewSessionDoc{SessionID: "s1", Status: models.SessionStatusEnded}, 0))

	repo := &stubSessions{getBySessionID: func(context.Context, string) (*models.InterviewSessionDoc, error) {
		t.Fatal("repo must not be hit on a cache hit")
		return nil, nil
	}}
	svc := NewInterviewService(repo, &stubJobs{}, c)

	doc, err := svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", doc.SessionID)
}

func TestGetSession_CachesOnlyEndedSessions(t *testing.T) {
	c := newMemCache()
	status := models.SessionStatusActive
	repo := &stubSessions{getBySessionID: func(_ context.Context, id string) (*models.InterviewSessionDoc, error) {
		return &models.InterviewSessionDoc{SessionID: id, Status: status}, nil
	}}
	svc := NewInterviewService(repo, &stubJobs{}, c)

	_, err := svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, c.data, "active sessions are still changing, never cached")

	status = models.SessionStatusEnded
	_, err = svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Contains(t, c.data, "session:s1")
}

func TestGetSession_MapsNotFound(t *testing.T) {
	repo := &stubSessions{getBySessionID: func(context.Context, string) (*models.InterviewSessionDoc, error) {
		return nil, utils.ErrNotFound
	}}
	svc := NewInterviewService(repo, &stubJobs{}, nil)

	_, err := svc.GetSession(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSchedule_RejectsInvertedWindow(t *testing.T) {
	svc := NewInterviewService(&stubSessions{}, &stubJobs{}, nil)

	now := time.Now()
	err := svc.Schedule(context.Background(), "j1", []string{"r1"}, now, now)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	err = svc.Schedule(context.Background(), "j1", []string{"r1"}, now.Add(time.Hour), now)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSchedule_SetsWindowPerResume(t *testing.T) {
	var got []string
	jobs := &stubJobs{setSchedule: func(_ context.Context, jobID, resumeID string, _, _ time.Time) error {
		assert.Equal(t, "j1", jobID)
		got = append(got, resumeID)
		return nil
	}}
	svc := NewInterviewService(&stubSessions{}, jobs, nil)

	now := time.Now()
	err := svc.Schedule(context.Background(), "j1", []string{"r1", "r2"}, now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, got)
}

func TestSchedule_UnknownResumeMapsNotFound(t *testing.T) {
	jobs := &stubJobs{setSchedule: func(context.Context, string, string, time.Time, time.Time) error {
		return utils.ErrNotFound
	}}
	svc := NewInterviewService(&stubSessions{}, jobs, nil)

	now := time.Now()
	err := svc.Schedule(context.Background(), "j1", []string{"ghost"}, now, now.Add(time.Hour))
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestReset_DeletesClearsAndEvicts(t *testing.T) {
	c := newMemCache()
	require.NoError(t, c.SetJSON(context.Background(), "session:s1", map[string]string{"k": "v"}, 0))

	var deleted, cleared string
	repo := &stubSessions{deleteFn: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}
	jobs := &stubJobs{clearInterviewResult: func(_ context.Context, id string) error {
		cleared = id
		return nil
	}}
	svc := NewInterviewService(repo, jobs, c)

	require.NoError(t, svc.Reset(context.Background(), "s1"))
	assert.Equal(t, "s1", deleted)
	assert.Equal(t, "s1", cleared)
	assert.Contains(t, c.dels, "session:s1")
}

func TestReset_UnknownSession(t *testing.T) {
	repo := &stubSessions{deleteFn: func(context.Context, string) error { return utils.ErrNotFound }}
	svc := NewInterviewService(repo, &stubJobs{}, nil)

	err := svc.Reset(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
