package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/internal/utils"
)

// EmployerHandler wires candidate search and unlock routes.
type EmployerHandler struct {
	service service.EmployerService
	logger  zerolog.Logger
}

// NewEmployerHandler constructs the handler.
func NewEmployerHandler(service service.EmployerService, logger zerolog.Logger) *EmployerHandler {
	return &EmployerHandler{
		service: service,
		logger:  logger.With().Str("component", "employer_handler").Logger(),
	}
}

// Register attaches employer endpoints to the router group.
func (h *EmployerHandler) Register(router fiber.Router) {
	router.Get("/candidates", h.searchCandidates)
	router.Post("/unlock/:studentId", h.unlock)
	router.Get("/unlocks", h.listUnlocks)
}

func (h *EmployerHandler) searchCandidates(c *fiber.Ctx) error {
	minScore, err := parseQueryInt(c, "minScore")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid minScore parameter")
	}
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page parameter")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit parameter")
	}

	payload := dto.CandidateSearchRequest{
		SkillSlug: sanitizeParam(c.Query("skill")),
		MinScore:  minScore,
		Page:      page,
		Limit:     limit,
	}

	result, err := h.service.SearchCandidates(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSkillNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		default:
			h.logger.Error().Err(err).Msg("failed to search candidates")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to search candidates")
		}
	}

	return utils.SendSuccess(c, "candidates retrieved", result)
}

func (h *EmployerHandler) unlock(c *fiber.Ctx) error {
	employerID := userIDFromContext(c)
	if employerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := h.service.Unlock(c.Context(), employerID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrEmployerNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoCredentials):
			return utils.SendError(c, fiber.StatusNotFound, "student has no verified credentials")
		case errors.Is(err, service.ErrInsufficientCredits):
			return utils.SendError(c, fiber.StatusPaymentRequired, "insufficient credits")
		default:
			h.logger.Error().Err(err).
				Uint("employer_id", employerID).
				Uint("student_id", studentID).
				Msg("failed to unlock profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to unlock profile")
		}
	}

	return utils.SendSuccess(c, "profile unlocked", profile)
}

func (h *EmployerHandler) listUnlocks(c *fiber.Ctx) error {
	employerID := userIDFromContext(c)
	if employerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	unlocks, err := h.service.ListUnlocks(c.Context(), employerID)
	if err != nil {
		h.logger.Error().Err(err).Uint("employer_id", employerID).Msg("failed to list unlocks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list unlocks")
	}

	return utils.SendSuccess(c, "unlock history retrieved", unlocks)
}
