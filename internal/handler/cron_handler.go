package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/observability"
	"github.com/lessonhub/lessonhub-api/internal/service"
	"github.com/lessonhub/lessonhub-api/internal/utils"
)

// CronHandler exposes the scheduled maintenance passes as HTTP endpoints.
// The external scheduler hits them with the shared cron secret; each run is
// idempotent so an overlapping or retried invocation is harmless.
type CronHandler struct {
	notifier service.NotifierService
	logger   zerolog.Logger
}

// NewCronHandler constructs the handler.
func NewCronHandler(notifier service.NotifierService, logger zerolog.Logger) *CronHandler {
	return &CronHandler{
		notifier: notifier,
		logger:   logger.With().Str("component", "cron_handler").Logger(),
	}
}

// Register attaches cron endpoints to the router group.
func (h *CronHandler) Register(router fiber.Router) {
	router.Post("/fail-overdue", h.failOverdue)
	router.Post("/reminders", h.reminders)
	router.Post("/auto-assign", h.autoAssign)
}

func (h *CronHandler) failOverdue(c *fiber.Ctx) error {
	count, err := h.notifier.FailOverdue(c.Context())
	return h.respond(c, "fail_overdue", "overdue assignments processed", count, err)
}

func (h *CronHandler) reminders(c *fiber.Ctx) error {
	count, err := h.notifier.Remind(c.Context())
	return h.respond(c, "reminders", "reminders processed", count, err)
}

func (h *CronHandler) autoAssign(c *fiber.Ctx) error {
	count, err := h.notifier.AutoAssign(c.Context())
	return h.respond(c, "auto_assign", "scheduled lessons processed", count, err)
}

func (h *CronHandler) respond(c *fiber.Ctx, job, message string, count int, err error) error {
	if err != nil {
		observability.CronRuns().WithLabelValues(job, "error").Inc()
		h.logger.Error().Err(err).Str("job", job).Msg("cron run failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "cron run failed")
	}

	observability.CronRuns().WithLabelValues(job, "ok").Inc()
	return utils.SendSuccess(c, message, fiber.Map{"processed": count})
}
