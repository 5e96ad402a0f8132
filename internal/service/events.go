package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/models"
)

const defaultIssuedSubject = "skillchain.credential.issued"

// CredentialEvents publishes issuance events for downstream consumers. All
// publication is best-effort: a missing or broken connection never fails the
// issuance that triggered it.
type CredentialEvents struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

type credentialIssuedEvent struct {
	CredentialID string    `json:"credential_id"`
	StudentID    uint      `json:"student_id"`
	SkillID      uint      `json:"skill_id"`
	Score        int       `json:"score"`
	ContentID    string    `json:"content_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// NewCredentialEvents constructs the event publisher. A nil connection is
// valid and turns publication into a no-op.
func NewCredentialEvents(conn *nats.Conn, subject string, logger zerolog.Logger) *CredentialEvents {
	if subject == "" {
		subject = defaultIssuedSubject
	}

	return &CredentialEvents{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "credential_events").Logger(),
	}
}

// PublishIssued announces a freshly issued credential.
func (e *CredentialEvents) PublishIssued(_ context.Context, credential models.Credential) {
	if e == nil || e.conn == nil {
		return
	}

	payload, err := json.Marshal(credentialIssuedEvent{
		CredentialID: credential.CredentialID,
		StudentID:    credential.StudentID,
		SkillID:      credential.SkillID,
		Score:        credential.Score,
		ContentID:    credential.ContentID,
		IssuedAt:     credential.IssuedAt,
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to encode issuance event")
		return
	}

	if err := e.conn.Publish(e.subject, payload); err != nil {
		e.logger.Warn().Err(err).Str("subject", e.subject).Msg("failed to publish issuance event")
	}
}
