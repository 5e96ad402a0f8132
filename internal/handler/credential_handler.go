package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/internal/utils"
)

// CredentialHandler wires the student credential routes.
type CredentialHandler struct {
	service service.CredentialService
	logger  zerolog.Logger
}

// NewCredentialHandler constructs the handler.
func NewCredentialHandler(service service.CredentialService, logger zerolog.Logger) *CredentialHandler {
	return &CredentialHandler{
		service: service,
		logger:  logger.With().Str("component", "credential_handler").Logger(),
	}
}

// Register attaches credential endpoints to the router group.
func (h *CredentialHandler) Register(router fiber.Router) {
	router.Get("/mine", h.listMine)
}

func (h *CredentialHandler) listMine(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	credentials, err := h.service.ListMine(c.Context(), studentID)
	if err != nil {
		h.logger.Error().Err(err).Uint("student_id", studentID).Msg("failed to list credentials")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list credentials")
	}

	return utils.SendSuccess(c, "credentials retrieved", credentials)
}
