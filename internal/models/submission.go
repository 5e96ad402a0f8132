package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission lifecycle states. A submission leaves pending exactly once.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// Ledger anchoring states for an approved submission.
const (
	LedgerStatusNotStarted = "not_started"
	LedgerStatusMinted     = "minted"
	LedgerStatusFailed     = "failed"
)

// Submission is a student's claim that a repository demonstrates a skill. It is
// created by the student, scored automatically, and mutated only by the admin
// decision step. At most one non-rejected submission exists per (student, skill).
type Submission struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	StudentID            uint           `gorm:"not null;index:idx_submissions_student_skill" json:"student_id"`
	SkillID              uint           `gorm:"not null;index:idx_submissions_student_skill" json:"skill_id"`
	RepoURL              string         `gorm:"size:512;not null" json:"repo_url"`
	DemoURL              string         `gorm:"size:512" json:"demo_url,omitempty"`
	Status               string         `gorm:"size:32;not null;default:pending;index" json:"status"`
	ConfidenceScore      int            `gorm:"not null;default:0" json:"confidence_score"`
	Flags                datatypes.JSON `json:"flags"`
	Report               datatypes.JSON `json:"report"`
	IsVisibleToEmployers bool           `gorm:"not null;default:false" json:"is_visible_to_employers"`
	ReviewedBy           *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time     `json:"reviewed_at,omitempty"`
	ReviewNotes          string         `gorm:"type:text" json:"review_notes,omitempty"`
	LedgerStatus         string         `gorm:"size:32;not null;default:not_started" json:"ledger_status"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	Student              User           `gorm:"foreignKey:StudentID" json:"student"`
	Skill                Skill          `gorm:"foreignKey:SkillID" json:"skill"`
}

// IsTerminal reports whether the submission has been reviewed.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}
