package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TranscriptEntry mirrors one interview turn into Postgres for offline
// analytics. Writes are best-effort; Mongo stays the source of truth.
type TranscriptEntry struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	Turn      int    `gorm:"column:turn" json:"turn"`
	Role      string `gorm:"column:role;type:text" json:"role"` // "interviewer" | "candidate"
	Content   string `gorm:"column:content;type:text" json:"content"`
	Stage     string `gorm:"column:stage;type:text" json:"stage"`
	Score     *int   `gorm:"column:score" json:"score,omitempty"`

	Embedding *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"embedding,omitempty"`
	Metadata  datatypes.JSON   `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Timestamp time.Time        `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (TranscriptEntry) TableName() string { return "transcript_entries" }
