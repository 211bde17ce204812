package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/carbonsense/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	estimator  *service.Estimator
	activities *service.ActivityService
}

// NewHandler creates a new handler
func NewHandler(estimator *service.Estimator, activities *service.ActivityService) *Handler {
	return &Handler{
		estimator:  estimator,
		activities: activities,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.activities.Health(c.UserContext()); err != nil {
		log.Warn().Err(err).Msg("Activity storage unhealthy")
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"message": "CarbonSense API is running",
		"mode":    h.estimator.Mode(),
	})
}

// Calculate estimates the footprint of a POSTed activity payload
func (h *Handler) Calculate(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return fiber.NewError(fiber.StatusMethodNotAllowed, "Method not allowed. Use POST.")
	}

	payload, err := service.DecodePayload(c.Body())
	if err != nil {
		log.Debug().Err(err).Msg("Rejected calculation body")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body")
	}

	input := service.NormalizeInput(payload)
	result := h.estimator.Estimate(c.UserContext(), input)

	return c.JSON(result)
}

// ListActivities returns the most recent tracked activities
func (h *Handler) ListActivities(c *fiber.Ctx) error {
	entries, err := h.activities.List(c.UserContext(), c.Query("key"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":  entries,
		"count": len(entries),
	})
}

// AddActivity appends an activity and returns the updated list
func (h *Handler) AddActivity(c *fiber.Ctx) error {
	var req service.NewActivity
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	entries, err := h.activities.Add(c.UserContext(), c.Query("key"), req)
	if errors.Is(err, service.ErrInvalidActivity) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":  entries,
		"count": len(entries),
	})
}
