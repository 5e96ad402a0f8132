package dto

import (
	"encoding/json"
	"time"

	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/scoring"
)

// SubmissionCreateRequest is the payload for submitting a project link.
type SubmissionCreateRequest struct {
	SkillID uint   `json:"skill_id" validate:"required"`
	RepoURL string `json:"repo_url" validate:"required,url,max=512"`
	DemoURL string `json:"demo_url" validate:"omitempty,url,max=512"`
}

// SubmissionResponse is the view of a submission returned to students and admins.
type SubmissionResponse struct {
	ID                   uint             `json:"id"`
	StudentID            uint             `json:"student_id"`
	StudentName          string           `json:"student_name,omitempty"`
	SkillID              uint             `json:"skill_id"`
	SkillName            string           `json:"skill_name,omitempty"`
	RepoURL              string           `json:"repo_url"`
	DemoURL              string           `json:"demo_url,omitempty"`
	Status               string           `json:"status"`
	ConfidenceScore      int              `json:"confidence_score"`
	Flags                []string         `json:"flags"`
	Report               *scoring.Signals `json:"report,omitempty"`
	IsVisibleToEmployers bool             `json:"is_visible_to_employers"`
	ReviewedBy           *uint            `json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time       `json:"reviewed_at,omitempty"`
	ReviewNotes          string           `json:"review_notes,omitempty"`
	LedgerStatus         string           `json:"ledger_status"`
	CreatedAt            time.Time        `json:"created_at"`
}

// NewSubmissionResponse maps a submission model to its API view.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:                   submission.ID,
		StudentID:            submission.StudentID,
		StudentName:          submission.Student.Name,
		SkillID:              submission.SkillID,
		SkillName:            submission.Skill.Name,
		RepoURL:              submission.RepoURL,
		DemoURL:              submission.DemoURL,
		Status:               submission.Status,
		ConfidenceScore:      submission.ConfidenceScore,
		Flags:                decodeFlags(submission.Flags),
		IsVisibleToEmployers: submission.IsVisibleToEmployers,
		ReviewedBy:           submission.ReviewedBy,
		ReviewedAt:           submission.ReviewedAt,
		ReviewNotes:          submission.ReviewNotes,
		LedgerStatus:         submission.LedgerStatus,
		CreatedAt:            submission.CreatedAt,
	}

	if len(submission.Report) > 0 {
		var report scoring.Signals
		if err := json.Unmarshal(submission.Report, &report); err == nil {
			response.Report = &report
		}
	}

	return response
}

// NewSubmissionResponseSlice maps a slice of submission models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

func decodeFlags(raw []byte) []string {
	flags := []string{}
	if len(raw) == 0 {
		return flags
	}

	_ = json.Unmarshal(raw, &flags)

	return flags
}
