package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/models"
)

// ErrNoCreditsAvailable indicates the employer balance was already exhausted
// when the conditional decrement ran.
var ErrNoCreditsAvailable = errors.New("no employer credits available")

// UnlockRepository defines data operations for employer unlock logs.
type UnlockRepository interface {
	Exists(ctx context.Context, employerID, studentID uint) (bool, error)
	CreateAndCharge(ctx context.Context, employerID, studentID uint) error
	ListByEmployer(ctx context.Context, employerID uint) ([]models.UnlockLog, error)
}

type unlockRepository struct {
	db *gorm.DB
}

// NewUnlockRepository instantiates the repository.
func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

func (r *unlockRepository) Exists(ctx context.Context, employerID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UnlockLog{}).
		Where("employer_id = ? AND student_id = ?", employerID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// CreateAndCharge inserts the unlock row and decrements the employer balance
// in one transaction. The unique (employer, student) index catches concurrent
// duplicate unlocks (gorm.ErrDuplicatedKey) and the conditional decrement
// refuses to run on an exhausted balance, so a pair is charged at most once
// and the balance never goes negative.
func (r *unlockRepository) CreateAndCharge(ctx context.Context, employerID, studentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unlock := models.UnlockLog{EmployerID: employerID, StudentID: studentID}
		if err := tx.Create(&unlock).Error; err != nil {
			return err
		}

		result := tx.Model(&models.User{}).
			Where("id = ? AND employer_credits > 0", employerID).
			UpdateColumn("employer_credits", gorm.Expr("employer_credits - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoCreditsAvailable
		}

		return nil
	})
}

func (r *unlockRepository) ListByEmployer(ctx context.Context, employerID uint) ([]models.UnlockLog, error) {
	var unlocks []models.UnlockLog
	if err := r.db.WithContext(ctx).Model(&models.UnlockLog{}).
		Preload("Student").
		Where("employer_id = ?", employerID).
		Order("created_at DESC").
		Find(&unlocks).Error; err != nil {
		return nil, err
	}

	return unlocks, nil
}
