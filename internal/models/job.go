package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobProfile is one job posting plus the resumes screened against it.
// Resume parsing and match scoring happen upstream; entries arrive ready-made.
type JobProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecruiterID   string             `bson:"recruiter_id" json:"recruiter_id"`
	Description   string             `bson:"description" json:"description"`
	ScoredResumes []ScoredResume     `bson:"scored_resumes" json:"scored_resumes"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

type ScoredResume struct {
	ResumeID  string  `bson:"resume_id" json:"resume_id"`
	Name      string  `bson:"name" json:"name"`
	Email     string  `bson:"email" json:"email"`
	Score     float64 `bson:"score" json:"score"`
	Reasoning string  `bson:"reasoning,omitempty" json:"reasoning,omitempty"`
	Text      string  `bson:"text" json:"text"` // extracted resume text, fed to the interview as the candidate profile

	InterviewStart *time.Time `bson:"interview_start,omitempty" json:"interview_start,omitempty"`
	InterviewEnd   *time.Time `bson:"interview_end,omitempty" json:"interview_end,omitempty"`
	InterviewDone  bool       `bson:"interview_done" json:"interview_done"`
	SessionID      string     `bson:"session_id,omitempty" json:"session_id,omitempty"`
}

// Entry returns the scored resume with the given id, if present.
func (j *JobProfile) Entry(resumeID string) (*ScoredResume, bool) {
	for i := range j.ScoredResumes {
		if j.ScoredResumes[i].ResumeID == resumeID {
			return &j.ScoredResumes[i], true
		}
	}
	return nil, false
}
