package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, metrics nethttp.Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// Prometheus scrape endpoint
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	// Legacy path used by the web client; every method reaches the
	// handler so non-POST requests get a 405 with Allow
	app.All("/api/calculate", handler.Calculate)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.All("/calculate", handler.Calculate)

		// Weekly tracker activity log
		api.Get("/activities", handler.ListActivities)
		api.Post("/activities", handler.AddActivity)
	}
}
