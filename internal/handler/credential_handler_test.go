package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/handler"
	"github.com/skillchain/skillchain-api/internal/service"
)

type mockCredentialService struct {
	studentID   uint
	credentials []dto.CredentialResponse
	err         error
}

func (m *mockCredentialService) ListMine(_ context.Context, studentID uint) ([]dto.CredentialResponse, error) {
	m.studentID = studentID
	if m.err != nil {
		return nil, m.err
	}
	return m.credentials, nil
}

func newCredentialApp(svc service.CredentialService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/credentials", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", "student")
		return c.Next()
	})
	handler.NewCredentialHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestCredentialHandler_ListMine(t *testing.T) {
	svc := &mockCredentialService{credentials: []dto.CredentialResponse{
		{
			CredentialID: "cred-0001",
			SkillName:    "Go Backend",
			SkillSlug:    "go-backend",
			Score:        88,
			IssuedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}}
	app := newCredentialApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials/mine", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.studentID)

	var response struct {
		Success bool                     `json:"success"`
		Data    []dto.CredentialResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
	require.Equal(t, "cred-0001", response.Data[0].CredentialID)
	require.Equal(t, "go-backend", response.Data[0].SkillSlug)
}

func TestCredentialHandler_ListMineFailure(t *testing.T) {
	svc := &mockCredentialService{err: errors.New("boom")}
	app := newCredentialApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/credentials/mine", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
