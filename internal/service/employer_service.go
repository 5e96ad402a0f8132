package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/observability"
	"github.com/skillchain/skillchain-api/internal/repository"
)

// ErrEmployerNotFound indicates the acting employer account is missing.
var ErrEmployerNotFound = errors.New("employer not found")

// ErrInsufficientCredits indicates the employer has no credits left to spend.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrNoCredentials indicates the student has no issued credentials to unlock.
var ErrNoCredentials = errors.New("student has no verified credentials")

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// EmployerService serves candidate search and credit-charged profile unlocks.
type EmployerService interface {
	SearchCandidates(ctx context.Context, payload dto.CandidateSearchRequest) (dto.CandidatePageResponse, error)
	Unlock(ctx context.Context, employerID, studentID uint) (dto.UnlockedProfileResponse, error)
	ListUnlocks(ctx context.Context, employerID uint) ([]dto.UnlockLogResponse, error)
}

type employerService struct {
	credentials repository.CredentialRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	skills      repository.SkillRepository
	unlocks     repository.UnlockRepository
	redis       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEmployerService constructs an EmployerService instance. The redis client
// is optional; a nil client disables search caching.
func NewEmployerService(
	credRepo repository.CredentialRepository,
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	unlockRepo repository.UnlockRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) EmployerService {
	return &employerService{
		credentials: credRepo,
		submissions: subRepo,
		users:       userRepo,
		skills:      skillRepo,
		unlocks:     unlockRepo,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "employer_service").Logger(),
	}
}

func (s *employerService) SearchCandidates(ctx context.Context, payload dto.CandidateSearchRequest) (dto.CandidatePageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CandidatePageResponse{}, err
	}

	page := payload.Page
	if page < 1 {
		page = 1
	}
	limit := payload.Limit
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	cacheKey := fmt.Sprintf("skillchain:candidates:%s:%d:%d:%d", payload.SkillSlug, payload.MinScore, page, limit)
	if cached, ok := s.cachedPage(ctx, cacheKey); ok {
		return cached, nil
	}

	filter := repository.CandidateFilter{
		MinScore: payload.MinScore,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}

	if payload.SkillSlug != "" {
		skill, err := s.skills.GetBySlug(ctx, payload.SkillSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CandidatePageResponse{}, ErrSkillNotFound
			}
			return dto.CandidatePageResponse{}, err
		}
		filter.SkillID = &skill.ID
	}

	credentials, total, err := s.credentials.Search(ctx, filter)
	if err != nil {
		return dto.CandidatePageResponse{}, err
	}

	candidates := make([]dto.CandidateResponse, 0, len(credentials))
	for _, credential := range credentials {
		candidates = append(candidates, dto.NewCandidateResponse(credential))
	}

	result := dto.CandidatePageResponse{
		Candidates: candidates,
		Total:      total,
		Page:       page,
		Limit:      limit,
	}

	s.storePage(ctx, cacheKey, result)

	return result, nil
}

// Unlock reveals a student profile, charging one credit at most once per
// (employer, student) pair. A repeat unlock returns the profile for free.
func (s *employerService) Unlock(ctx context.Context, employerID, studentID uint) (dto.UnlockedProfileResponse, error) {
	unlocked, err := s.unlocks.Exists(ctx, employerID, studentID)
	if err != nil {
		return dto.UnlockedProfileResponse{}, err
	}
	if unlocked {
		return s.unlockedProfile(ctx, studentID)
	}

	employer, err := s.users.GetByID(ctx, employerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UnlockedProfileResponse{}, ErrEmployerNotFound
		}
		return dto.UnlockedProfileResponse{}, err
	}
	if employer.EmployerCredits <= 0 {
		return dto.UnlockedProfileResponse{}, ErrInsufficientCredits
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UnlockedProfileResponse{}, ErrStudentNotFound
		}
		return dto.UnlockedProfileResponse{}, err
	}
	if !student.IsStudent() {
		return dto.UnlockedProfileResponse{}, ErrStudentNotFound
	}

	credentials, err := s.credentials.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.UnlockedProfileResponse{}, err
	}
	if len(credentials) == 0 {
		return dto.UnlockedProfileResponse{}, ErrNoCredentials
	}

	if err := s.unlocks.CreateAndCharge(ctx, employerID, studentID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Lost the race against a concurrent unlock of the same pair;
			// the winner already paid.
			return s.unlockedProfile(ctx, studentID)
		case errors.Is(err, repository.ErrNoCreditsAvailable):
			return dto.UnlockedProfileResponse{}, ErrInsufficientCredits
		default:
			return dto.UnlockedProfileResponse{}, err
		}
	}

	observability.UnlockCharges().Inc()
	s.logger.Info().
		Uint("employer_id", employerID).
		Uint("student_id", studentID).
		Msg("student profile unlocked")

	return s.unlockedProfile(ctx, studentID)
}

func (s *employerService) ListUnlocks(ctx context.Context, employerID uint) ([]dto.UnlockLogResponse, error) {
	unlocks, err := s.unlocks.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}

	return dto.NewUnlockLogResponseSlice(unlocks), nil
}

func (s *employerService) unlockedProfile(ctx context.Context, studentID uint) (dto.UnlockedProfileResponse, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UnlockedProfileResponse{}, ErrStudentNotFound
		}
		return dto.UnlockedProfileResponse{}, err
	}

	credentials, err := s.credentials.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.UnlockedProfileResponse{}, err
	}

	submissions, err := s.submissions.ListApprovedByStudent(ctx, studentID)
	if err != nil {
		return dto.UnlockedProfileResponse{}, err
	}

	profile := dto.UnlockedProfileResponse{
		Student:     dto.NewUserResponse(student),
		Credentials: make([]dto.UnlockedCredential, 0, len(credentials)),
		Submissions: make([]dto.UnlockedSubmission, 0, len(submissions)),
	}

	for _, credential := range credentials {
		profile.Credentials = append(profile.Credentials, dto.UnlockedCredential{
			SkillName:    credential.Skill.Name,
			Score:        credential.Score,
			CredentialID: credential.CredentialID,
			ContentURL:   credential.ContentURL,
		})
	}

	for _, submission := range submissions {
		profile.Submissions = append(profile.Submissions, dto.UnlockedSubmission{
			SkillName:       submission.Skill.Name,
			RepoURL:         submission.RepoURL,
			DemoURL:         submission.DemoURL,
			ConfidenceScore: submission.ConfidenceScore,
		})
	}

	return profile, nil
}

func (s *employerService) cachedPage(ctx context.Context, key string) (dto.CandidatePageResponse, bool) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return dto.CandidatePageResponse{}, false
	}

	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("candidate cache read failed")
		}
		return dto.CandidatePageResponse{}, false
	}

	var page dto.CandidatePageResponse
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return dto.CandidatePageResponse{}, false
	}

	return page, true
}

func (s *employerService) storePage(ctx context.Context, key string, page dto.CandidatePageResponse) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	encoded, err := json.Marshal(page)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("candidate cache write failed")
	}
}
