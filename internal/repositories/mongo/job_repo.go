package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hirevox/hirevox/internal/models"
	"github.com/hirevox/hirevox/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.JobProfile) error
	GetByID(ctx context.Context, jobID string) (*models.JobProfile, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobProfile, error)
	SetSchedule(ctx context.Context, jobID, resumeID string, start, end time.Time) error
	MarkInterviewDone(ctx context.Context, jobID, resumeID, sessionID string) error
	ClearInterviewResult(ctx context.Context, sessionID string) error
}

type jobRepo struct {
	col *mongo.Collection
}

func NewJobRepo(db *mongo.Database) JobRepository {
	return &jobRepo{col: db.Collection("job_profiles")}
}

func (r *jobRepo) Create(ctx context.Context, j *models.JobProfile) error {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.ScoredResumes == nil {
		j.ScoredResumes = []models.ScoredResume{}
	}
	res, err := r.col.InsertOne(ctx, j)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		j.ID = oid
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, jobID string) (*models.JobProfile, error) {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, utils.ErrNotFound
	}

	var j models.JobProfile
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobProfile, error) {
	cur, err := r.col.Find(ctx, bson.M{"recruiter_id": recruiterID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JobProfile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) SetSchedule(ctx context.Context, jobID, resumeID string, start, end time.Time) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return utils.ErrNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "scored_resumes.resume_id": resumeID},
		bson.M{"$set": bson.M{
			"scored_resumes.$.interview_start": start.UTC(),
			"scored_resumes.$.interview_end":   end.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) MarkInterviewDone(ctx context.Context, jobID, resumeID, sessionID string) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return utils.ErrNotFound
	}

	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "scored_resumes.resume_id": resumeID},
		bson.M{"$set": bson.M{
			"scored_resumes.$.interview_done": true,
			"scored_resumes.$.session_id":     sessionID,
		}},
	)
	return err
}

func (r *jobRepo) ClearInterviewResult(ctx context.Context, sessionID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"scored_resumes.session_id": sessionID},
		bson.M{
			"$set":   bson.M{"scored_resumes.$.interview_done": false},
			"$unset": bson.M{"scored_resumes.$.session_id": ""},
		},
	)
	return err
}
