package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/service"
	"github.com/lessonhub/lessonhub-api/internal/utils"
)

// AssignmentHandler wires assignment lifecycle routes: handing out lessons,
// listing and reading assignments, and grading.
type AssignmentHandler struct {
	assignments service.AssignmentService
	grading     service.GradingService
	logger      zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments service.AssignmentService, grading service.GradingService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		grading:     grading,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id/grade", h.grade)
}

// RegisterAssign attaches the assign endpoint under the lessons group.
func (h *AssignmentHandler) RegisterAssign(router fiber.Router) {
	router.Post("/:id/assign", h.assign)
}

func (h *AssignmentHandler) assign(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.assignments.Assign(c.Context(), lessonID, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson assigned", result)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	var filter dto.AssignmentFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	userID := userIDFromContext(c)

	var (
		assignments []dto.AssignmentResponse
		err         error
	)
	if userRoleFromContext(c) == models.RoleStudent {
		assignments, err = h.assignments.ListForStudent(c.Context(), userID, filter)
	} else {
		assignments, err = h.assignments.ListForTeacher(c.Context(), userID, filter)
	}
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.assignments.Get(c.Context(), id, userIDFromContext(c), userRoleFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.grading.Grade(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment graded", assignment)
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, resp := sendServiceError(c, err); handled {
		return resp
	}
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
