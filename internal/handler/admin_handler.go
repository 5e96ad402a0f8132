package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/internal/utils"
)

// AdminHandler wires the review queue and issuance routes.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin review endpoints to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/submissions/pending", h.listPending)
	router.Post("/submissions/:id/approve", h.approve)
	router.Post("/submissions/:id/reject", h.reject)
}

func (h *AdminHandler) listPending(c *fiber.Ctx) error {
	submissions, err := h.service.ListPending(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list pending submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending submissions")
	}

	return utils.SendSuccess(c, "pending submissions retrieved", submissions)
}

func (h *AdminHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reviewerID := userIDFromContext(c)
	submission, err := h.service.Approve(c.Context(), id, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrAlreadyProcessed):
			return utils.SendError(c, fiber.StatusConflict, "submission already processed")
		case errors.Is(err, service.ErrScoreBelowMinimum):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "confidence score below approval minimum")
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrSkillNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrIssuanceFailed):
			h.logger.Error().Err(err).Uint("submission_id", id).Msg("credential issuance failed")
			return utils.SendError(c, fiber.StatusBadGateway, "credential issuance failed, submission remains pending")
		default:
			h.logger.Error().Err(err).Uint("submission_id", id).Msg("failed to approve submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to approve submission")
		}
	}

	return utils.SendSuccess(c, "submission approved and credential issued", submission)
}

func (h *AdminHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RejectSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reviewerID := userIDFromContext(c)
	submission, err := h.service.Reject(c.Context(), id, reviewerID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrAlreadyProcessed):
			return utils.SendError(c, fiber.StatusConflict, "submission already processed")
		default:
			h.logger.Error().Err(err).Uint("submission_id", id).Msg("failed to reject submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reject submission")
		}
	}

	return utils.SendSuccess(c, "submission rejected", submission)
}
