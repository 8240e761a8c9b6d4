package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/alerts"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/vaccination"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	clk := clock.System{}

	// Feature plugins
	var relay alerts.Relay
	redisClient, err := cache.Connect(cfg)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil && cfg.SMSFallbackStream != "" {
		relay = alerts.NewStreamRelay(redisClient, cfg.SMSFallbackStream)
		slog.Info("emergency fallback relay enabled", "stream", cfg.SMSFallbackStream)
	}
	plugins := []apps.Plugin{
		vaccination.New(clk),
		alerts.New(clk, relay),
	}

	// Record store
	var (
		st           store.RecordStore
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		st = store.NewMemoryStore()
	default:
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.MigrateShared(db); err != nil {
			slog.Error("shared migration failed", "error", err)
			os.Exit(1)
		}
		for _, p := range plugins {
			if models := p.Models(); len(models) > 0 {
				if err := database.MigrateModels(db, models); err != nil {
					slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
					os.Exit(1)
				}
				slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
			}
		}

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		logging.Install(pgLogHandler)
		logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

		st = store.NewGormStore(db)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
		UnescapePath: true,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	var limiterStorage fiber.Storage
	if redisClient != nil {
		limiterStorage = cache.NewStorage(redisClient, "medmitra:limiter:")
	}
	routes.Setup(app, cfg, st, limiterStorage,
		handlers.NewHealthHandler(st),
		handlers.NewProfileHandler(services.NewProfileService(st, cfg.Location())),
		plugins,
	)

	// Reminder scanner
	scanner := scheduler.NewScanner(st, vaccination.NewProjectorFromConfig(clk, cfg), cfg.ScanInterval, slog.Default())
	scanner.Start(context.Background())

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	scanner.Stop()
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
