package dto

import (
	"time"

	"github.com/skillchain/skillchain-api/internal/models"
)

// CandidateSearchRequest filters the employer candidate search.
type CandidateSearchRequest struct {
	SkillSlug string `json:"skill" validate:"omitempty,max=100"`
	MinScore  int    `json:"min_score" validate:"gte=0,lte=100"`
	Page      int    `json:"page" validate:"gte=0"`
	Limit     int    `json:"limit" validate:"gte=0,lte=100"`
}

// CandidateResponse is one row of the employer candidate search.
type CandidateResponse struct {
	StudentID    uint      `json:"student_id"`
	StudentName  string    `json:"student_name"`
	SkillID      uint      `json:"skill_id"`
	SkillName    string    `json:"skill_name"`
	SkillSlug    string    `json:"skill_slug"`
	Score        int       `json:"score"`
	CredentialID string    `json:"credential_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// CandidatePageResponse is a page of candidate search results.
type CandidatePageResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// UnlockedCredential is a credential entry in an unlocked profile.
type UnlockedCredential struct {
	SkillName    string `json:"skill_name"`
	Score        int    `json:"score"`
	CredentialID string `json:"credential_id"`
	ContentURL   string `json:"content_url"`
}

// UnlockedSubmission is an approved submission entry in an unlocked profile.
type UnlockedSubmission struct {
	SkillName       string `json:"skill_name"`
	RepoURL         string `json:"repo_url"`
	DemoURL         string `json:"demo_url,omitempty"`
	ConfidenceScore int    `json:"confidence_score"`
}

// UnlockedProfileResponse reveals a student's contact details and verified work.
type UnlockedProfileResponse struct {
	Student     UserResponse         `json:"student"`
	Credentials []UnlockedCredential `json:"credentials"`
	Submissions []UnlockedSubmission `json:"submissions"`
}

// UnlockLogResponse is one entry in an employer's unlock history.
type UnlockLogResponse struct {
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// NewCandidateResponse maps a credential with its associations to a search row.
func NewCandidateResponse(credential models.Credential) CandidateResponse {
	return CandidateResponse{
		StudentID:    credential.StudentID,
		StudentName:  credential.Student.Name,
		SkillID:      credential.SkillID,
		SkillName:    credential.Skill.Name,
		SkillSlug:    credential.Skill.Slug,
		Score:        credential.Score,
		CredentialID: credential.CredentialID,
		IssuedAt:     credential.IssuedAt,
	}
}

// NewUnlockLogResponseSlice maps unlock log rows to their API view.
func NewUnlockLogResponseSlice(unlocks []models.UnlockLog) []UnlockLogResponse {
	responses := make([]UnlockLogResponse, 0, len(unlocks))
	for _, unlock := range unlocks {
		responses = append(responses, UnlockLogResponse{
			StudentID:   unlock.StudentID,
			StudentName: unlock.Student.Name,
			UnlockedAt:  unlock.CreatedAt,
		})
	}

	return responses
}
