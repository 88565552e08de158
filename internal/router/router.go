package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lessonhub/lessonhub-api/internal/config"
	"github.com/lessonhub/lessonhub-api/internal/handler"
	"github.com/lessonhub/lessonhub-api/internal/middleware"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	LessonHandler      *handler.LessonHandler
	AssignmentHandler  *handler.AssignmentHandler
	SubmissionHandler  *handler.SubmissionHandler
	MarketplaceHandler *handler.MarketplaceHandler
	LeaderboardHandler *handler.LeaderboardHandler
	CronHandler        *handler.CronHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teacherOnly := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	if deps.LessonHandler != nil {
		lessons := api.Group("/lessons", jwtMiddleware, teacherOnly)
		deps.LessonHandler.Register(lessons)

		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterAssign(lessons)
		}
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)

		if deps.SubmissionHandler != nil {
			// Game rounds arrive in rapid bursts; cap them per user so a
			// misbehaving client cannot spam the reward ledger.
			student := api.Group("/assignments", jwtMiddleware, studentOnly, middleware.RateLimit("submissions", 30, time.Second))
			deps.SubmissionHandler.Register(student)
		}
	}

	if deps.MarketplaceHandler != nil {
		marketplace := api.Group("/marketplace", jwtMiddleware, studentOnly)
		deps.MarketplaceHandler.Register(marketplace)
	}

	if deps.LeaderboardHandler != nil {
		rewards := api.Group("/rewards", jwtMiddleware)
		deps.LeaderboardHandler.Register(rewards)
	}

	if deps.CronHandler != nil {
		cron := api.Group("/cron", middleware.CronSecret(cfg.CronSecret))
		deps.CronHandler.Register(cron)
	}
}
