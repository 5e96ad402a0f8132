package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/models"
)

func newAuthFixture(t *testing.T) (AuthService, *userRepoStub) {
	t.Helper()

	userRepo := newUserRepoStub()
	validate := validator.New(validator.WithRequiredStructEnabled())

	return NewAuthService(userRepo, "test-secret", 5, validate, testLogger()), userRepo
}

func TestAuthServiceRegisterStudent(t *testing.T) {
	svc, userRepo := newAuthFixture(t)

	auth, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, models.RoleStudent, auth.User.Role)
	require.Zero(t, auth.User.EmployerCredits)

	stored, err := userRepo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", stored.PasswordHash)

	token, err := jwt.Parse(auth.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestAuthServiceRegisterEmployerGetsStartingCredits(t *testing.T) {
	svc, _ := newAuthFixture(t)

	auth, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Acme",
		Email:    "jobs@acme.example",
		Password: "hire-people",
		Role:     models.RoleEmployer,
	})
	require.NoError(t, err)
	require.Equal(t, 5, auth.User.EmployerCredits)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	payload := dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     models.RoleStudent,
	}

	_, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceRegisterRejectsAdminRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "let-me-in",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)

	auth, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
