package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newCronApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(CronSecret(secret))
	app.Post("/cron/job", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCronSecretAllowsMatchingHeader(t *testing.T) {
	app := newCronApp("top-secret")

	req := httptest.NewRequest(http.MethodPost, "/cron/job", nil)
	req.Header.Set("X-Cron-Secret", "top-secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCronSecretRejectsMissingOrWrongHeader(t *testing.T) {
	app := newCronApp("top-secret")

	req := httptest.NewRequest(http.MethodPost, "/cron/job", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/cron/job", nil)
	req.Header.Set("X-Cron-Secret", "guessing")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCronSecretDisabledWithoutConfiguration(t *testing.T) {
	app := newCronApp("")

	req := httptest.NewRequest(http.MethodPost, "/cron/job", nil)
	req.Header.Set("X-Cron-Secret", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
