package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/models"
)

// SkillRepository defines data operations for the skill catalog.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	List(ctx context.Context) ([]models.Skill, error)
	GetByID(ctx context.Context, id uint) (models.Skill, error)
	GetBySlug(ctx context.Context, slug string) (models.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository instantiates the repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}

	return skills, nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return models.Skill{}, err
	}

	return skill, nil
}

func (r *skillRepository) GetBySlug(ctx context.Context, slug string) (models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&skill).Error; err != nil {
		return models.Skill{}, err
	}

	return skill, nil
}
