package handler

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGradingIsExposedAsPatch(t *testing.T) {
	app := fiber.New()
	h := NewAssignmentHandler(nil, nil, zerolog.Nop())
	h.Register(app.Group("/assignments"))

	var methods []string
	for _, route := range app.GetRoutes() {
		if route.Path == "/assignments/:id/grade" {
			methods = append(methods, route.Method)
		}
	}

	require.Equal(t, []string{fiber.MethodPatch}, methods)
}
