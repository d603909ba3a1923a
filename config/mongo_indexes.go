package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sessions := db.Collection("interview_sessions")
	_, err := sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		// "latest session for resume" lookup
		{
			Keys:    bson.D{{Key: "resume_id", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("by_resume_started"),
		},
		// per-job stats aggregation
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("by_job_started"),
		},
	})
	if err != nil {
		return err
	}

	jobs := db.Collection("job_profiles")
	_, err = jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recruiter_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_recruiter_created"),
		},
	})
	return err
}
