package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/models"
)

func TestUnlockRepositoryCreateAndChargeDecrementsBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUnlockRepository(db)

	employer := seedUser(t, db, models.User{Name: "Acme", Email: "jobs@acme.example", PasswordHash: "x", Role: models.RoleEmployer, EmployerCredits: 2})
	student := seedUser(t, db, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleStudent})

	require.NoError(t, repo.CreateAndCharge(context.Background(), employer.ID, student.ID))

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, employer.ID).Error)
	require.Equal(t, 1, refreshed.EmployerCredits)

	exists, err := repo.Exists(context.Background(), employer.ID, student.ID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestUnlockRepositoryCreateAndChargeRejectsDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUnlockRepository(db)

	employer := seedUser(t, db, models.User{Name: "Acme", Email: "jobs@acme.example", PasswordHash: "x", Role: models.RoleEmployer, EmployerCredits: 5})
	student := seedUser(t, db, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleStudent})

	require.NoError(t, repo.CreateAndCharge(context.Background(), employer.ID, student.ID))

	err := repo.CreateAndCharge(context.Background(), employer.ID, student.ID)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// The losing attempt must not charge a second credit.
	var refreshed models.User
	require.NoError(t, db.First(&refreshed, employer.ID).Error)
	require.Equal(t, 4, refreshed.EmployerCredits)
}

func TestUnlockRepositoryCreateAndChargeRefusesEmptyBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUnlockRepository(db)

	employer := seedUser(t, db, models.User{Name: "Acme", Email: "jobs@acme.example", PasswordHash: "x", Role: models.RoleEmployer, EmployerCredits: 0})
	student := seedUser(t, db, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleStudent})

	err := repo.CreateAndCharge(context.Background(), employer.ID, student.ID)
	require.ErrorIs(t, err, ErrNoCreditsAvailable)

	// The failed transaction must roll back the unlock row too.
	exists, err := repo.Exists(context.Background(), employer.ID, student.ID)
	require.NoError(t, err)
	require.False(t, exists)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, employer.ID).Error)
	require.Zero(t, refreshed.EmployerCredits)
}

func TestUnlockRepositoryListByEmployer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUnlockRepository(db)

	employer := seedUser(t, db, models.User{Name: "Acme", Email: "jobs@acme.example", PasswordHash: "x", Role: models.RoleEmployer, EmployerCredits: 5})
	first := seedUser(t, db, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleStudent})
	second := seedUser(t, db, models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleStudent})

	require.NoError(t, repo.CreateAndCharge(context.Background(), employer.ID, first.ID))
	require.NoError(t, repo.CreateAndCharge(context.Background(), employer.ID, second.ID))

	unlocks, err := repo.ListByEmployer(context.Background(), employer.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 2)
	require.NotEmpty(t, unlocks[0].Student.Name)
}
