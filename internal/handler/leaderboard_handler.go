package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/service"
	"github.com/lessonhub/lessonhub-api/internal/utils"
)

// LeaderboardHandler wires the reward read routes: ledger activity, the
// leaderboard and earned badges.
type LeaderboardHandler struct {
	ledger service.LedgerService
	logger zerolog.Logger
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(ledger service.LedgerService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		ledger: ledger,
		logger: logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches reward read endpoints to the router group.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("/leaderboard", h.leaderboard)
	router.Get("/ledger", h.ledgerActivity)
	router.Get("/badges", h.badges)
}

func (h *LeaderboardHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := h.ledger.Leaderboard(c.Context(), limit)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *LeaderboardHandler) ledgerActivity(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.ledger.RecentActivity(c.Context(), userIDFromContext(c), limit)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "ledger retrieved", entries)
}

func (h *LeaderboardHandler) badges(c *fiber.Ctx) error {
	badges, err := h.ledger.Badges(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "badges retrieved", badges)
}

func (h *LeaderboardHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
