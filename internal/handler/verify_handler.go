package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/internal/utils"
)

// VerifyHandler wires the public credential verification route.
type VerifyHandler struct {
	service service.VerifyService
	logger  zerolog.Logger
}

// NewVerifyHandler constructs the handler.
func NewVerifyHandler(service service.VerifyService, logger zerolog.Logger) *VerifyHandler {
	return &VerifyHandler{
		service: service,
		logger:  logger.With().Str("component", "verify_handler").Logger(),
	}
}

// Register attaches the verification endpoint to the router group.
func (h *VerifyHandler) Register(router fiber.Router) {
	router.Get("/:credentialId", h.verify)
}

func (h *VerifyHandler) verify(c *fiber.Ctx) error {
	credentialID := sanitizeParam(c.Params("credentialId"))
	if credentialID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "credential id is required")
	}

	result, err := h.service.Verify(c.Context(), credentialID)
	if err != nil {
		if errors.Is(err, service.ErrCredentialNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "credential not found")
		}
		h.logger.Error().Err(err).Str("credential_id", credentialID).Msg("failed to verify credential")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to verify credential")
	}

	return utils.SendSuccess(c, "credential verified", result)
}
