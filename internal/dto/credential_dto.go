package dto

import (
	"time"

	"github.com/skillchain/skillchain-api/internal/models"
)

// CredentialResponse is a student's view of one of their issued credentials.
type CredentialResponse struct {
	CredentialID    string    `json:"credential_id"`
	SkillID         uint      `json:"skill_id"`
	SkillName       string    `json:"skill_name"`
	SkillSlug       string    `json:"skill_slug"`
	Score           int       `json:"score"`
	ContentID       string    `json:"content_id"`
	ContentURL      string    `json:"content_url"`
	LedgerTxRef     string    `json:"ledger_tx_ref"`
	CertificateHash string    `json:"certificate_hash"`
	IssuedAt        time.Time `json:"issued_at"`
}

// NewCredentialResponse maps a credential with its associations to the API view.
func NewCredentialResponse(credential models.Credential) CredentialResponse {
	return CredentialResponse{
		CredentialID:    credential.CredentialID,
		SkillID:         credential.SkillID,
		SkillName:       credential.Skill.Name,
		SkillSlug:       credential.Skill.Slug,
		Score:           credential.Score,
		ContentID:       credential.ContentID,
		ContentURL:      credential.ContentURL,
		LedgerTxRef:     credential.LedgerTxRef,
		CertificateHash: credential.CertificateHash,
		IssuedAt:        credential.IssuedAt,
	}
}

// NewCredentialResponseSlice maps issued credentials to their API views.
func NewCredentialResponseSlice(credentials []models.Credential) []CredentialResponse {
	responses := make([]CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		responses = append(responses, NewCredentialResponse(credential))
	}

	return responses
}
