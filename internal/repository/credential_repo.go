package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/models"
)

// CandidateFilter narrows the employer candidate search.
type CandidateFilter struct {
	SkillID  *uint
	MinScore int
	Offset   int
	Limit    int
}

// CredentialRepository defines data operations for issued credentials.
type CredentialRepository interface {
	Issue(ctx context.Context, credential *models.Credential, submission *models.Submission) error
	GetByCredentialID(ctx context.Context, credentialID string) (models.Credential, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Credential, error)
	Search(ctx context.Context, filter CandidateFilter) ([]models.Credential, int64, error)
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository instantiates the repository.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Credential{}).
		Preload("Student").
		Preload("Skill")
}

// Issue persists the credential record and flips the submission state in one
// transaction. Either both writes land or neither does.
func (r *credentialRepository) Issue(ctx context.Context, credential *models.Credential, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(credential).Error; err != nil {
			return err
		}

		return tx.Save(submission).Error
	})
}

func (r *credentialRepository) GetByCredentialID(ctx context.Context, credentialID string) (models.Credential, error) {
	var credential models.Credential
	if err := r.baseQuery(ctx).
		Where("credential_id = ?", credentialID).
		First(&credential).Error; err != nil {
		return models.Credential{}, err
	}

	return credential, nil
}

func (r *credentialRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Credential, error) {
	var credentials []models.Credential
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&credentials).Error; err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *credentialRepository) Search(ctx context.Context, filter CandidateFilter) ([]models.Credential, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("score >= ?", filter.MinScore)

	if filter.SkillID != nil {
		query = query.Where("skill_id = ?", *filter.SkillID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var credentials []models.Credential
	if err := query.
		Preload("Student").
		Preload("Skill").
		Order("score DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&credentials).Error; err != nil {
		return nil, 0, err
	}

	return credentials, total, nil
}
