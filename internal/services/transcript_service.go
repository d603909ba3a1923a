package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/models"
	pgrepo "github.com/hirevox/hirevox/internal/repositories/postgres"
	"github.com/hirevox/hirevox/internal/utils"
)

// TranscriptService mirrors interview turns into Postgres for offline
// analytics. Writes are best-effort: a failed mirror is logged, never
// surfaced to the interview loop.
type TranscriptService interface {
	LogTurn(ctx context.Context, sessionID string, t interview.Turn)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error)
}

type transcriptService struct {
	repo pgrepo.TranscriptRepo
	log  *logrus.Logger
}

func NewTranscriptService(repo pgrepo.TranscriptRepo, log *logrus.Logger) TranscriptService {
	return &transcriptService{repo: repo, log: log}
}

func (s *transcriptService) LogTurn(ctx context.Context, sessionID string, t interview.Turn) {
	md, _ := json.Marshal(map[string]any{"question_number": t.QuestionNumber})

	rows := []*models.TranscriptEntry{
		{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Turn:      t.QuestionNumber,
			Role:      "interviewer",
			Content:   t.Question,
			Stage:     t.Stage,
			Metadata:  datatypes.JSON(md),
			Timestamp: t.AskedAt,
		},
		{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Turn:      t.QuestionNumber,
			Role:      "candidate",
			Content:   t.Answer,
			Stage:     t.Stage,
			Score:     t.Score,
			Metadata:  datatypes.JSON(md),
			Timestamp: t.AnsweredAt,
		},
	}

	for _, row := range rows {
		if err := s.repo.Insert(ctx, row); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"session_id": sessionID,
				"turn":       t.QuestionNumber,
				"role":       row.Role,
			}).Warn("transcript mirror failed")
		}
	}
}

func (s *transcriptService) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error) {
	const op = "TranscriptService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	rows, err := s.repo.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list transcript", err)
	}
	return rows, nil
}

var _ interview.TurnLogger = (*transcriptService)(nil)
