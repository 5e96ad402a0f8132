package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database per test keeps the shared cache isolated
	// between test functions while still surviving pooled connections.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Submission{},
		&models.Credential{},
		&models.UnlockLog{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, user models.User) models.User {
	t.Helper()
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedSkill(t *testing.T, db *gorm.DB, skill models.Skill) models.Skill {
	t.Helper()
	require.NoError(t, db.Create(&skill).Error)
	return skill
}
