package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/repository"
	"github.com/skillchain/skillchain-api/internal/scoring"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrDuplicateSubmission indicates the student already has an active submission for the skill.
var ErrDuplicateSubmission = errors.New("an active submission already exists for this skill")

// SubmissionService orchestrates submission workflows.
type SubmissionService interface {
	Create(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	skills      repository.SkillRepository
	signals     SignalService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, skillRepo repository.SkillRepository, signals SignalService, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		skills:      skillRepo,
		signals:     signals,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Create scores the submitted repository and persists the submission as
// pending. Signal collection failures reject the attempt: nothing is stored
// for an unparsable URL or an unreachable repository.
func (s *submissionService) Create(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.skills.GetByID(ctx, payload.SkillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSkillNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	exists, err := s.submissions.ExistsActiveForStudentAndSkill(ctx, studentID, payload.SkillID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if exists {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	}

	signals, err := s.signals.Collect(ctx, payload.RepoURL)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	result := scoring.Score(signals, payload.DemoURL != "")

	flagsJSON, err := json.Marshal(result.Flags)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to encode flags: %w", err)
	}

	reportJSON, err := json.Marshal(signals)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to encode signal report: %w", err)
	}

	submission := models.Submission{
		StudentID:       studentID,
		SkillID:         payload.SkillID,
		RepoURL:         payload.RepoURL,
		DemoURL:         payload.DemoURL,
		Status:          models.SubmissionStatusPending,
		ConfidenceScore: result.Score,
		Flags:           flagsJSON,
		Report:          reportJSON,
		LedgerStatus:    models.LedgerStatusNotStarted,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("student_id", studentID).
		Int("confidence_score", result.Score).
		Strs("flags", result.Flags).
		Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}
