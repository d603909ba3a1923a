package postgres

import (
	"context"

	"github.com/hirevox/hirevox/internal/models"
	"gorm.io/gorm"
)

type TranscriptRepo interface {
	Insert(ctx context.Context, e *models.TranscriptEntry) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error)
}

type transcriptRepo struct {
	db *gorm.DB
}

func NewTranscriptRepo(db *gorm.DB) TranscriptRepo {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Insert(ctx context.Context, e *models.TranscriptEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *transcriptRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 200
	}

	var rows []models.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn ASC, timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
