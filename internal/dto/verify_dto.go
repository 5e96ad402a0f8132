package dto

import (
	"time"

	"github.com/skillchain/skillchain-api/internal/models"
)

// VerifyCredentialDetails is the credential record portion of a verification.
type VerifyCredentialDetails struct {
	CredentialID string    `json:"credential_id"`
	Score        int       `json:"score"`
	ContentID    string    `json:"content_id"`
	ContentURL   string    `json:"content_url"`
	LedgerTxRef  string    `json:"ledger_tx_ref,omitempty"`
	IssuedAt     time.Time `json:"issued_at"`
}

// VerifyResponse reports two independent assertions about a credential: that
// the record exists (Valid) and that the pinned metadata still hashes to the
// stored digest (HashMatch). They are never collapsed into one boolean.
type VerifyResponse struct {
	Valid        bool                    `json:"valid"`
	HashMatch    bool                    `json:"hash_match"`
	StoredHash   string                  `json:"stored_hash"`
	ComputedHash string                  `json:"computed_hash,omitempty"`
	Credential   VerifyCredentialDetails `json:"credential"`
	Student      UserResponse            `json:"student"`
	Skill        SkillResponse           `json:"skill"`
	Certificate  map[string]interface{}  `json:"certificate"`
}

// NewVerifyCredentialDetails maps a credential model to its verification view.
func NewVerifyCredentialDetails(credential models.Credential) VerifyCredentialDetails {
	return VerifyCredentialDetails{
		CredentialID: credential.CredentialID,
		Score:        credential.Score,
		ContentID:    credential.ContentID,
		ContentURL:   credential.ContentURL,
		LedgerTxRef:  credential.LedgerTxRef,
		IssuedAt:     credential.IssuedAt,
	}
}
