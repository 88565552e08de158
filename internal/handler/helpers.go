package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lessonhub/lessonhub-api/internal/service"
	"github.com/lessonhub/lessonhub-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// sendServiceError maps the shared service sentinels onto HTTP statuses.
// Anything unmapped is reported as an internal error by the caller.
func sendServiceError(c *fiber.Ctx, err error) (bool, error) {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrAssignmentNotFound):
		return true, utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return true, utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDeadlinePassed),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrNotGradable),
		errors.Is(err, service.ErrTapLimitReached),
		errors.Is(err, service.ErrNoTriesLeft),
		errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrInsufficientSavings),
		errors.Is(err, service.ErrLessonTypeMismatch),
		errors.Is(err, service.ErrLessonConfigMissing),
		errors.Is(err, service.ErrInvalidLessonPayload),
		errors.Is(err, service.ErrIncompleteSubmission):
		return true, utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return true, utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	}

	return false, nil
}
