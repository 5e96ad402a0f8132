package models

import "time"

// Credential is the durable record of a successful issuance. It is created
// exactly once per approval and never mutated or deleted. CertificateHash is
// the canonical hash of the exact metadata object pinned to content storage.
type Credential struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StudentID       uint      `gorm:"not null;index:idx_credentials_student_skill" json:"student_id"`
	SkillID         uint      `gorm:"not null;index:idx_credentials_student_skill;index:idx_credentials_skill_score" json:"skill_id"`
	Score           int       `gorm:"not null;index:idx_credentials_skill_score,sort:desc" json:"score"`
	ContentID       string    `gorm:"size:128;not null" json:"content_id"`
	ContentURL      string    `gorm:"size:512;not null" json:"content_url"`
	LedgerTxRef     string    `gorm:"size:128" json:"ledger_tx_ref"`
	CredentialID    string    `gorm:"size:64;uniqueIndex;not null" json:"credential_id"`
	CertificateHash string    `gorm:"size:64;index;not null" json:"certificate_hash"`
	IssuedAt        time.Time `json:"issued_at"`
	Student         User      `gorm:"foreignKey:StudentID" json:"student"`
	Skill           Skill     `gorm:"foreignKey:SkillID" json:"skill"`
}
