package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/service"
	"github.com/lessonhub/lessonhub-api/internal/utils"
)

// MarketplaceHandler wires the savings and reclaim routes.
type MarketplaceHandler struct {
	marketplace service.MarketplaceService
	logger      zerolog.Logger
}

// NewMarketplaceHandler constructs the handler.
func NewMarketplaceHandler(marketplace service.MarketplaceService, logger zerolog.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplace: marketplace,
		logger:      logger.With().Str("component", "marketplace_handler").Logger(),
	}
}

// Register attaches marketplace endpoints to the router group.
func (h *MarketplaceHandler) Register(router fiber.Router) {
	router.Get("/savings", h.savings)
	router.Post("/reclaim", h.reclaim)
}

func (h *MarketplaceHandler) savings(c *fiber.Ctx) error {
	savings, err := h.marketplace.Savings(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "savings retrieved", savings)
}

func (h *MarketplaceHandler) reclaim(c *fiber.Ctx) error {
	var payload dto.ReclaimRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.marketplace.Reclaim(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment repurchased", result)
}

func (h *MarketplaceHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, resp := sendServiceError(c, err); handled {
		return resp
	}
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
