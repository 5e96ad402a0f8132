package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/handler"
	"github.com/skillchain/skillchain-api/internal/service"
)

type mockAdminService struct {
	pending    []dto.SubmissionResponse
	approved   dto.SubmissionResponse
	rejected   dto.SubmissionResponse
	approveErr error
	rejectErr  error
	reviewerID uint
}

func (m *mockAdminService) ListPending(_ context.Context) ([]dto.SubmissionResponse, error) {
	return m.pending, nil
}

func (m *mockAdminService) Approve(_ context.Context, submissionID, reviewerID uint) (dto.SubmissionResponse, error) {
	m.reviewerID = reviewerID
	if m.approveErr != nil {
		return dto.SubmissionResponse{}, m.approveErr
	}
	return m.approved, nil
}

func (m *mockAdminService) Reject(_ context.Context, submissionID, reviewerID uint, payload dto.RejectSubmissionRequest) (dto.SubmissionResponse, error) {
	m.reviewerID = reviewerID
	if m.rejectErr != nil {
		return dto.SubmissionResponse{}, m.rejectErr
	}
	return m.rejected, nil
}

func newAdminApp(svc service.AdminService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/admin", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(99))
		c.Locals("user_role", "admin")
		return c.Next()
	})
	handler.NewAdminHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestAdminHandler_ApproveSuccess(t *testing.T) {
	svc := &mockAdminService{approved: dto.SubmissionResponse{ID: 1, Status: "approved"}}
	app := newAdminApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/1/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(99), svc.reviewerID)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "approved", response.Data.Status)
}

func TestAdminHandler_ApproveConflictWhenProcessed(t *testing.T) {
	svc := &mockAdminService{approveErr: service.ErrAlreadyProcessed}
	app := newAdminApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/1/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAdminHandler_ApproveBadGatewayOnIssuanceFailure(t *testing.T) {
	svc := &mockAdminService{approveErr: service.ErrIssuanceFailed}
	app := newAdminApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/1/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestAdminHandler_ApproveRejectsBadID(t *testing.T) {
	svc := &mockAdminService{}
	app := newAdminApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/zero/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandler_RejectSuccess(t *testing.T) {
	svc := &mockAdminService{rejected: dto.SubmissionResponse{ID: 1, Status: "rejected"}}
	app := newAdminApp(svc)

	body, err := json.Marshal(dto.RejectSubmissionRequest{Reason: "repo is a fork"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/1/reject", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
