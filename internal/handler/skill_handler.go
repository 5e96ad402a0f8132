package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/internal/utils"
)

// SkillHandler wires skill catalog routes.
type SkillHandler struct {
	service service.SkillService
	logger  zerolog.Logger
}

// NewSkillHandler constructs the handler.
func NewSkillHandler(service service.SkillService, logger zerolog.Logger) *SkillHandler {
	return &SkillHandler{
		service: service,
		logger:  logger.With().Str("component", "skill_handler").Logger(),
	}
}

// Register attaches catalog endpoints. Reads are public; catalog writes run
// behind the supplied admin guards.
func (h *SkillHandler) Register(router fiber.Router, adminGuards ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", append(adminGuards, h.create)...)
}

func (h *SkillHandler) list(c *fiber.Ctx) error {
	skills, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list skills")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list skills")
	}

	return utils.SendSuccess(c, "skills retrieved", skills)
}

func (h *SkillHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	skill, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSkillNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		}
		h.logger.Error().Err(err).Uint("skill_id", id).Msg("failed to get skill")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get skill")
	}

	return utils.SendSuccess(c, "skill retrieved", skill)
}

func (h *SkillHandler) create(c *fiber.Ctx) error {
	var payload dto.SkillCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	skill, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSkillSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, "skill slug already taken")
		default:
			h.logger.Error().Err(err).Msg("failed to create skill")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create skill")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "skill created", skill)
}
