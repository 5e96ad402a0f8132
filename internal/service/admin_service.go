package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/observability"
	"github.com/skillchain/skillchain-api/internal/repository"
	"github.com/skillchain/skillchain-api/pkg/canonical"
	"github.com/skillchain/skillchain-api/pkg/ipfs"
	"github.com/skillchain/skillchain-api/pkg/ledger"
)

// ErrAlreadyProcessed indicates the submission has left the pending state.
var ErrAlreadyProcessed = errors.New("submission already processed")

// ErrStudentNotFound indicates the submission references a missing student.
var ErrStudentNotFound = errors.New("student not found")

// ErrIssuanceFailed indicates pinning failed and the approval was aborted.
// The submission stays pending and the approval is safe to retry.
var ErrIssuanceFailed = errors.New("credential issuance failed")

// ErrScoreBelowMinimum indicates the confidence score is under the approval gate.
var ErrScoreBelowMinimum = errors.New("confidence score below approval minimum")

const zeroWalletAddress = "0x0000000000000000000000000000000000000000"

// metadataSchema constrains the credential metadata object before it is
// pinned; a malformed payload must never become an immutable credential.
const metadataSchema = `{
	"type": "object",
	"required": ["credentialId", "studentName", "skillName", "skillSlug", "score", "issuedAt", "issuer"],
	"properties": {
		"credentialId": {"type": "string", "minLength": 1},
		"studentName": {"type": "string", "minLength": 1},
		"studentWallet": {"type": "string"},
		"skillName": {"type": "string", "minLength": 1},
		"skillSlug": {"type": "string", "minLength": 1},
		"score": {"type": "integer", "minimum": 0, "maximum": 100},
		"issuedAt": {"type": "string"},
		"issuer": {"type": "string", "minLength": 1}
	}
}`

// ContentPinner is the content-addressed storage collaborator.
type ContentPinner interface {
	PinJSON(ctx context.Context, payload interface{}) (ipfs.PinResult, error)
	FetchJSON(ctx context.Context, contentURL string) (map[string]interface{}, error)
}

// LedgerMinter is the best-effort ledger anchoring collaborator.
type LedgerMinter interface {
	Mint(ctx context.Context, params ledger.MintParams) (string, error)
}

// AdminService reviews pending submissions and owns the issuance saga.
type AdminService interface {
	ListPending(ctx context.Context) ([]dto.SubmissionResponse, error)
	Approve(ctx context.Context, submissionID, reviewerID uint) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, submissionID, reviewerID uint, payload dto.RejectSubmissionRequest) (dto.SubmissionResponse, error)
}

type adminService struct {
	submissions repository.SubmissionRepository
	credentials repository.CredentialRepository
	users       repository.UserRepository
	skills      repository.SkillRepository
	pinner      ContentPinner
	minter      LedgerMinter
	events      *CredentialEvents
	schema      *jsonschema.Schema
	sanitizer   *bluemonday.Policy
	issuerName  string
	minScore    int
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewAdminService constructs the admin review service. minScore is the named
// approval gate policy: zero disables it.
func NewAdminService(
	subRepo repository.SubmissionRepository,
	credRepo repository.CredentialRepository,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	pinner ContentPinner,
	minter LedgerMinter,
	events *CredentialEvents,
	issuerName string,
	minScore int,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		submissions: subRepo,
		credentials: credRepo,
		users:       userRepo,
		skills:      skillRepo,
		pinner:      pinner,
		minter:      minter,
		events:      events,
		schema:      jsonschema.MustCompileString("credential_metadata.json", metadataSchema),
		sanitizer:   bluemonday.StrictPolicy(),
		issuerName:  issuerName,
		minScore:    minScore,
		logger:      logger.With().Str("component", "admin_service").Logger(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *adminService) ListPending(ctx context.Context) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Approve runs the issuance saga. Pinning is the single hard-stop: a failure
// there aborts with ErrIssuanceFailed and leaves the submission pending.
// Ledger anchoring is best-effort and never fails the approval.
func (s *adminService) Approve(ctx context.Context, submissionID, reviewerID uint) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/skillchain/skillchain-api/internal/service/admin")
	ctx, span := tracer.Start(ctx, "issuance.approve")
	span.SetAttributes(
		attribute.Int64("issuance.submission_id", int64(submissionID)),
		attribute.Int64("issuance.reviewer_id", int64(reviewerID)),
	)
	defer span.End()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if submission.Status != models.SubmissionStatusPending {
		span.SetStatus(codes.Error, "already_processed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: submission is already %s", ErrAlreadyProcessed, submission.Status)
	}

	if s.minScore > 0 && submission.ConfidenceScore < s.minScore {
		span.SetStatus(codes.Error, "score_below_minimum")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %d < %d", ErrScoreBelowMinimum, submission.ConfidenceScore, s.minScore)
	}

	student, err := s.users.GetByID(ctx, submission.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student_not_found")
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	skill, err := s.skills.GetByID(ctx, submission.SkillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "skill_not_found")
			return dto.SubmissionResponse{}, ErrSkillNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	credentialID := s.newID()
	issuedAt := s.now().UTC()

	metadata := buildCredentialMetadata(student, skill, submission.ConfidenceScore, credentialID, issuedAt, s.issuerName)
	if err := s.validateMetadata(metadata); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "metadata_invalid")
		return dto.SubmissionResponse{}, err
	}

	pinStart := time.Now()
	pinned, err := s.pinner.PinJSON(ctx, metadata)
	observability.PinLatency().Observe(time.Since(pinStart).Seconds())
	if err != nil {
		observability.Issuance().WithLabelValues("pin_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "pin_failed")
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("content pin failed, issuance aborted")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrIssuanceFailed, err)
	}

	ledgerStatus := models.LedgerStatusMinted
	txRef, err := s.minter.Mint(ctx, ledger.MintParams{
		RecipientAddress: walletOrZero(student.WalletAddress),
		SkillSlug:        skill.Slug,
		Score:            submission.ConfidenceScore,
		ContentRef:       pinned.CID,
	})
	if err != nil {
		observability.LedgerMintFailures().Inc()
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("ledger anchoring failed, continuing with placeholder")
		ledgerStatus = models.LedgerStatusFailed
		txRef = "unanchored-" + s.newID()
	}

	certificateHash, err := canonical.Hash(metadata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash_failed")
		return dto.SubmissionResponse{}, err
	}

	credential := models.Credential{
		StudentID:       student.ID,
		SkillID:         skill.ID,
		Score:           submission.ConfidenceScore,
		ContentID:       pinned.CID,
		ContentURL:      pinned.URL,
		LedgerTxRef:     txRef,
		CredentialID:    credentialID,
		CertificateHash: certificateHash,
		IssuedAt:        issuedAt,
	}

	reviewedAt := s.now()
	submission.Status = models.SubmissionStatusApproved
	submission.IsVisibleToEmployers = true
	submission.ReviewedBy = &reviewerID
	submission.ReviewedAt = &reviewedAt
	submission.LedgerStatus = ledgerStatus

	if err := s.credentials.Issue(ctx, &credential, &submission); err != nil {
		observability.Issuance().WithLabelValues("persist_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		return dto.SubmissionResponse{}, err
	}

	observability.Issuance().WithLabelValues("issued").Inc()
	s.events.PublishIssued(ctx, credential)

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("reviewer_id", reviewerID).
		Str("credential_id", credentialID).
		Str("content_id", pinned.CID).
		Str("ledger_status", ledgerStatus).
		Msg("submission approved and credential issued")

	approved, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(approved), nil
}

// Reject stamps the reviewer decision. It performs no external calls.
func (s *adminService) Reject(ctx context.Context, submissionID, reviewerID uint, payload dto.RejectSubmissionRequest) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.Status != models.SubmissionStatusPending {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: submission is already %s", ErrAlreadyProcessed, submission.Status)
	}

	reviewedAt := s.now()
	submission.Status = models.SubmissionStatusRejected
	submission.IsVisibleToEmployers = false
	submission.ReviewedBy = &reviewerID
	submission.ReviewedAt = &reviewedAt
	submission.ReviewNotes = strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("reviewer_id", reviewerID).
		Msg("submission rejected")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *adminService) validateMetadata(metadata map[string]interface{}) error {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	var decoded interface{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}

	if err := s.schema.Validate(decoded); err != nil {
		return fmt.Errorf("credential metadata failed schema validation: %w", err)
	}

	return nil
}

// buildCredentialMetadata assembles the exact object that is pinned and
// hashed. Field set and values must be deterministic for a given input.
func buildCredentialMetadata(student models.User, skill models.Skill, score int, credentialID string, issuedAt time.Time, issuer string) map[string]interface{} {
	return map[string]interface{}{
		"credentialId":  credentialID,
		"studentName":   student.Name,
		"studentWallet": walletOrZero(student.WalletAddress),
		"skillName":     skill.Name,
		"skillSlug":     skill.Slug,
		"score":         score,
		"issuedAt":      issuedAt.Format(time.RFC3339),
		"issuer":        issuer,
	}
}

func walletOrZero(wallet string) string {
	if strings.TrimSpace(wallet) == "" {
		return zeroWalletAddress
	}

	return wallet
}
