package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hirevox/hirevox/config"
	"github.com/hirevox/hirevox/internal/api/handlers"
	"github.com/hirevox/hirevox/internal/api/middleware"
	"github.com/hirevox/hirevox/internal/api/routes"
	"github.com/hirevox/hirevox/internal/cache"
	"github.com/hirevox/hirevox/internal/events"
	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/logger"
	"github.com/hirevox/hirevox/internal/providers/llm"
	"github.com/hirevox/hirevox/internal/providers/mail"
	"github.com/hirevox/hirevox/internal/providers/stt"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
	pgrepo "github.com/hirevox/hirevox/internal/repositories/postgres"
	"github.com/hirevox/hirevox/internal/services"
	"github.com/hirevox/hirevox/internal/storage"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	ctx := context.Background()

	// MongoDB
	client, db, err := config.NewMongo(ctx)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		lg.WithError(err).Warn("failed to ensure mongo indexes")
	}
	lg.Info("MongoDB connected")

	// Redis
	rdb, err := config.NewRedis(ctx)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	defer rdb.Close()
	lg.Info("Redis connected")

	// PostgreSQL (optional transcript mirror)
	pg, err := config.NewPostgres()
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if pg != nil {
		lg.Info("PostgreSQL connected")
	} else {
		lg.Warn("POSTGRES_URI not set, transcript mirror disabled")
	}

	// Vertex AI
	llmProvider, err := llm.NewVertexGemini(ctx,
		os.Getenv("GCP_PROJECT_ID"),
		envOr("VERTEX_LOCATION", "us-central1"),
		os.Getenv("VERTEX_MODEL"),
	)
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	defer llmProvider.Close()

	// Google Speech (optional, spoken answers)
	var sttProvider stt.Provider
	if os.Getenv("STT_ENABLED") == "true" {
		gs, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.Fatalf("Speech init error: %v", err)
		}
		defer gs.Close()
		sttProvider = gs
	}

	// GCS (optional, transcript archive)
	var archiver interview.Archiver
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		archiver = services.NewTranscriptArchiver(up)
	}

	// repositories
	jobRepo := mongorepo.NewJobRepo(db)
	sessionRepo := mongorepo.NewSessionRepo(db)

	// services
	jobSvc := services.NewJobService(jobRepo)
	interviewSvc := services.NewInterviewService(sessionRepo, jobRepo, cache.NewRedisCache(rdb))
	inviteSvc := services.NewInviteService(jobRepo, mail.NewMailjet(
		os.Getenv("MAILJET_API_KEY"),
		os.Getenv("MAILJET_SECRET_KEY"),
		os.Getenv("MAILJET_SENDER_EMAIL"),
		envOr("MAILJET_SENDER_NAME", "HireVox"),
	), envOr("FRONTEND_URL", "http://localhost:3000"), lg)

	var transcriptSvc services.TranscriptService
	if pg != nil {
		transcriptSvc = services.NewTranscriptService(pgrepo.NewTranscriptRepo(pg), lg)
	}

	// interview engine
	gen := interview.NewQuestionGenerator(llmProvider, lg)
	scorer := interview.NewAnswerScorer(llmProvider, lg)
	finalizer := interview.NewFinalizer(llmProvider, lg)

	wsCfg := handlers.InterviewWSConfig{
		Jobs:         jobRepo,
		Sessions:     sessionRepo,
		Generator:    gen,
		Scorer:       scorer,
		Finalizer:    finalizer,
		STT:          sttProvider,
		Archive:      archiver,
		Events:       events.NewRedisSink(rdb, lg),
		MaxQuestions: envInt("INTERVIEW_MAX_QUESTIONS", 8),
		MaxDuration:  envDuration("INTERVIEW_MAX_DURATION", interview.DefaultMaxDuration),
		Log:          lg,
	}
	if transcriptSvc != nil {
		wsCfg.Turns = transcriptSvc
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(lg), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Job:       handlers.NewJobHandler(jobSvc, interviewSvc, inviteSvc),
		Session:   handlers.NewSessionHandler(interviewSvc, transcriptSvc),
		Candidate: handlers.NewInterviewWSHandler(wsCfg),
		Monitor:   handlers.NewMonitorWSHandler(interviewSvc, rdb),
	})

	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
