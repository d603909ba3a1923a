package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hirevox/hirevox/internal/providers/mail"
	mongorepo "github.com/hirevox/hirevox/internal/repositories/mongo"
	"github.com/hirevox/hirevox/internal/utils"
)

// InviteReport summarizes one invite batch.
type InviteReport struct {
	Invited int      `json:"invited"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type InviteService interface {
	SendInvites(ctx context.Context, jobID string, resumeIDs []string) (*InviteReport, error)
}

type inviteService struct {
	jobs        mongorepo.JobRepository
	sender      mail.Sender
	frontendURL string
	log         *logrus.Logger
}

func NewInviteService(jobs mongorepo.JobRepository, sender mail.Sender, frontendURL string, log *logrus.Logger) InviteService {
	return &inviteService{jobs: jobs, sender: sender, frontendURL: frontendURL, log: log}
}

func (s *inviteService) SendInvites(ctx context.Context, jobID string, resumeIDs []string) (*InviteReport, error) {
	const op = "InviteService.SendInvites"

	if jobID == "" || len(resumeIDs) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id and resume_ids are required", nil)
	}
	if s.sender == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "mail sender is not configured", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	wanted := map[string]struct{}{}
	for _, id := range resumeIDs {
		wanted[id] = struct{}{}
	}

	report := &InviteReport{}
	for _, r := range job.ScoredResumes {
		if _, ok := wanted[r.ResumeID]; !ok {
			continue
		}
		if r.Email == "" {
			report.Failed++
			report.Errors = append(report.Errors, "no email for "+r.Name)
			continue
		}

		url := fmt.Sprintf("%s/interview/%s/%s", s.frontendURL, job.ID.Hex(), r.ResumeID)
		msg := mail.Message{
			ToEmail: r.Email,
			ToName:  r.Name,
			Subject: "Interview Invitation - AI-Powered Interview",
			TextBody: fmt.Sprintf(
				"Dear %s,\n\nCongratulations! You have been shortlisted for the position.\n\n"+
					"Please use the following link to start your AI-powered interview:\n%s\n\n"+
					"The interview takes approximately 20-30 minutes. Please ensure a stable "+
					"internet connection and a quiet environment.\n\nBest regards,\nThe Hiring Team",
				r.Name, url),
			HTMLBody: fmt.Sprintf(
				"<p>Dear %s,</p><p>Congratulations! You have been <strong>shortlisted</strong> for the position.</p>"+
					"<p><a href=\"%s\">Start Interview</a></p>"+
					"<p>The interview takes approximately 20-30 minutes. Please ensure a stable "+
					"internet connection and a quiet environment.</p><p>Best regards,<br/>The Hiring Team</p>",
				r.Name, url),
		}

		if err := s.sender.Send(ctx, msg); err != nil {
			s.log.WithError(err).WithField("email", r.Email).Warn("invite delivery failed")
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("failed for %s (%s)", r.Name, r.Email))
			continue
		}
		report.Invited++
	}

	return report, nil
}
