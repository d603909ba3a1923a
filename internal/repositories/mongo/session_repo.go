package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hirevox/hirevox/internal/models"
	"github.com/hirevox/hirevox/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Finalization is the terminal write applied exactly once per session.
type Finalization struct {
	EndedAt        time.Time
	AverageScore   *float64
	StageBreakdown map[string]float64
	Summary        string
	Recommendation string
	TranscriptURL  string
}

// JobInterviewStats aggregates finished sessions for one job.
type JobInterviewStats struct {
	Sessions  int64    `bson:"sessions" json:"sessions"`
	Completed int64    `bson:"completed" json:"completed"`
	MeanScore *float64 `bson:"mean_score" json:"mean_score,omitempty"`
}

type SessionRepository interface {
	Create(ctx context.Context, s *models.InterviewSessionDoc) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSessionDoc, error)
	LatestByResumeID(ctx context.Context, resumeID string) (*models.InterviewSessionDoc, error)
	AppendHistory(ctx context.Context, sessionID string, e models.HistoryEntry) error
	AppendTabEvent(ctx context.Context, sessionID string, e models.TabEvent) error
	AppendGazeEvent(ctx context.Context, sessionID string, e models.GazeEvent) error
	AppendObjectEvent(ctx context.Context, sessionID string, e models.ObjectEvent) error
	AppendWarningEvent(ctx context.Context, sessionID string, e models.WarningEvent) error
	Finalize(ctx context.Context, sessionID string, fin Finalization) error
	Delete(ctx context.Context, sessionID string) error
	StatsByJob(ctx context.Context, jobID string) (*JobInterviewStats, error)
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.InterviewSessionDoc) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	if s.History == nil {
		s.History = []models.HistoryEntry{}
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSessionDoc, error) {
	var s models.InterviewSessionDoc
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) LatestByResumeID(ctx context.Context, resumeID string) (*models.InterviewSessionDoc, error) {
	var s models.InterviewSessionDoc
	err := r.col.FindOne(ctx,
		bson.M{"resume_id": resumeID},
		options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}}),
	).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

// push appends to one of the session's ordered arrays. $push preserves
// insertion order, which keeps history question numbers strictly increasing.
func (r *sessionRepo) push(ctx context.Context, sessionID, field string, value any) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$push": bson.M{field: value}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) AppendHistory(ctx context.Context, sessionID string, e models.HistoryEntry) error {
	return r.push(ctx, sessionID, "history", e)
}

func (r *sessionRepo) AppendTabEvent(ctx context.Context, sessionID string, e models.TabEvent) error {
	return r.push(ctx, sessionID, "tab_events", e)
}

func (r *sessionRepo) AppendGazeEvent(ctx context.Context, sessionID string, e models.GazeEvent) error {
	return r.push(ctx, sessionID, "gaze_events", e)
}

func (r *sessionRepo) AppendObjectEvent(ctx context.Context, sessionID string, e models.ObjectEvent) error {
	return r.push(ctx, sessionID, "object_events", e)
}

func (r *sessionRepo) AppendWarningEvent(ctx context.Context, sessionID string, e models.WarningEvent) error {
	return r.push(ctx, sessionID, "warning_events", e)
}

func (r *sessionRepo) Finalize(ctx context.Context, sessionID string, fin Finalization) error {
	set := bson.M{
		"status":   models.SessionStatusEnded,
		"ended_at": fin.EndedAt.UTC(),
		"summary":  fin.Summary,
	}
	if fin.AverageScore != nil {
		set["average_score"] = *fin.AverageScore
	}
	if len(fin.StageBreakdown) > 0 {
		set["stage_breakdown"] = fin.StageBreakdown
	}
	if fin.Recommendation != "" {
		set["recommendation"] = fin.Recommendation
	}
	if fin.TranscriptURL != "" {
		set["transcript_url"] = fin.TranscriptURL
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"session_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, sessionID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) StatsByJob(ctx context.Context, jobID string) (*JobInterviewStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"job_id": jobID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"sessions": bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.SessionStatusEnded}}, 1, 0},
			}},
			"mean_score": bson.M{"$avg": "$average_score"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []JobInterviewStats
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &JobInterviewStats{}, nil
	}
	return &rows[0], nil
}
