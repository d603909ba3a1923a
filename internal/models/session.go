package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// InterviewSessionDoc is one interview attempt. Created when the candidate
// connects, mutated on every answer/telemetry event, finalized exactly once.
type InterviewSessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	JobID     string             `bson:"job_id" json:"job_id"`
	ResumeID  string             `bson:"resume_id" json:"resume_id"`

	Status string `bson:"status" json:"status"` // active|ended

	ScheduledStart *time.Time `bson:"scheduled_start,omitempty" json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `bson:"scheduled_end,omitempty" json:"scheduled_end,omitempty"`
	StartedAt      time.Time  `bson:"started_at" json:"started_at"`
	EndedAt        *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	History []HistoryEntry `bson:"history" json:"history"`

	TabEvents     []TabEvent     `bson:"tab_events,omitempty" json:"tab_events,omitempty"`
	GazeEvents    []GazeEvent    `bson:"gaze_events,omitempty" json:"gaze_events,omitempty"`
	ObjectEvents  []ObjectEvent  `bson:"object_events,omitempty" json:"object_events,omitempty"`
	WarningEvents []WarningEvent `bson:"warning_events,omitempty" json:"warning_events,omitempty"`

	AverageScore   *float64           `bson:"average_score,omitempty" json:"average_score,omitempty"`
	StageBreakdown map[string]float64 `bson:"stage_breakdown,omitempty" json:"stage_breakdown,omitempty"`
	Summary        string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Recommendation string             `bson:"recommendation,omitempty" json:"recommendation,omitempty"`
	TranscriptURL  string             `bson:"transcript_url,omitempty" json:"transcript_url,omitempty"`
}

// HistoryEntry is one question/answer/score triple. Score is absent (nil) when
// the model could not rate the answer; absent never means zero.
type HistoryEntry struct {
	QuestionNumber int       `bson:"question_number" json:"question_number"`
	Question       string    `bson:"question" json:"question"`
	Answer         string    `bson:"answer" json:"answer"`
	Score          *int      `bson:"score,omitempty" json:"score,omitempty"`
	Stage          string    `bson:"stage" json:"stage"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

// Proctoring telemetry, recorded alongside the dialogue but never scored.

type TabEvent struct {
	Count     int       `bson:"count" json:"count"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type GazeEvent struct {
	X         float64   `bson:"x" json:"x"`
	Y         float64   `bson:"y" json:"y"`
	T         float64   `bson:"t" json:"t"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type ObjectEvent struct {
	People    int       `bson:"people" json:"people"`
	Phones    int       `bson:"phones" json:"phones"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type WarningEvent struct {
	Kind      string    `bson:"kind" json:"kind"` // not-looking
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
