package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/repository"
)

// ErrSkillNotFound indicates the referenced skill does not exist.
var ErrSkillNotFound = errors.New("skill not found")

// ErrSkillSlugTaken indicates the slug is already in the catalog.
var ErrSkillSlugTaken = errors.New("skill slug already taken")

// SkillService manages the verifiable skill catalog.
type SkillService interface {
	Create(ctx context.Context, payload dto.SkillCreateRequest) (dto.SkillResponse, error)
	List(ctx context.Context) ([]dto.SkillResponse, error)
	GetByID(ctx context.Context, id uint) (dto.SkillResponse, error)
}

type skillService struct {
	skills    repository.SkillRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSkillService constructs a SkillService instance.
func NewSkillService(skillRepo repository.SkillRepository, validate *validator.Validate, logger zerolog.Logger) SkillService {
	return &skillService{
		skills:    skillRepo,
		validator: validate,
		logger:    logger.With().Str("component", "skill_service").Logger(),
	}
}

func (s *skillService) Create(ctx context.Context, payload dto.SkillCreateRequest) (dto.SkillResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SkillResponse{}, err
	}

	if _, err := s.skills.GetBySlug(ctx, payload.Slug); err == nil {
		return dto.SkillResponse{}, ErrSkillSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SkillResponse{}, err
	}

	skill := models.Skill{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
	}

	if err := s.skills.Create(ctx, &skill); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SkillResponse{}, ErrSkillSlugTaken
		}
		return dto.SkillResponse{}, err
	}

	s.logger.Info().Str("slug", skill.Slug).Msg("skill added to catalog")

	return dto.NewSkillResponse(skill), nil
}

func (s *skillService) List(ctx context.Context) ([]dto.SkillResponse, error) {
	skills, err := s.skills.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewSkillResponseSlice(skills), nil
}

func (s *skillService) GetByID(ctx context.Context, id uint) (dto.SkillResponse, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SkillResponse{}, ErrSkillNotFound
		}
		return dto.SkillResponse{}, err
	}

	return dto.NewSkillResponse(skill), nil
}
