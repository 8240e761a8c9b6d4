package routes

import (
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every route. limiterStorage may be nil.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	st store.RecordStore,
	limiterStorage fiber.Storage,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	plugins []apps.Plugin,
) {
	// Operational endpoints stay outside the rate limit.
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("", middleware.RateLimit(cfg.RateLimitPerMinute, limiterStorage))

	// Profile
	api.Post("/register", profileHandler.Register)
	api.Get("/user/:email", profileHandler.GetUser)
	api.Put("/update/:email", profileHandler.UpdateProfile)

	// Vaccination + alerts
	for _, p := range plugins {
		p.RegisterRoutes(api, st, cfg)
	}
}
