package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/storage"
)

// TranscriptArchiver exports a finished session's transcript to object
// storage and returns its URL.
type TranscriptArchiver struct {
	uploader storage.Uploader
}

func NewTranscriptArchiver(uploader storage.Uploader) *TranscriptArchiver {
	return &TranscriptArchiver{uploader: uploader}
}

func (a *TranscriptArchiver) Archive(ctx context.Context, sessionID string, s *interview.Session) (string, error) {
	b, err := interview.TranscriptJSON(sessionID, s)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("transcripts/%s.json", sessionID)
	return a.uploader.Upload(ctx, objectName, "application/json", bytes.NewReader(b))
}

var _ interview.Archiver = (*TranscriptArchiver)(nil)
