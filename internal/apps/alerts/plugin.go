package alerts

import (
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/vaccination"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AlertsPlugin struct {
	clock clock.Clock
	relay Relay
}

// New builds the plugin. relay may be nil when no fallback channel is set up.
func New(c clock.Clock, relay Relay) *AlertsPlugin {
	return &AlertsPlugin{clock: c, relay: relay}
}

func (p *AlertsPlugin) ID() string { return "alerts" }

func (p *AlertsPlugin) Models() []interface{} {
	return []interface{}{
		&models.Notification{},
	}
}

func (p *AlertsPlugin) RegisterRoutes(router fiber.Router, st store.RecordStore, cfg *config.Config) {
	projector := vaccination.NewProjectorFromConfig(p.clock, cfg)
	handler := NewAlertsHandler(st,
		NewAggregator(projector, cfg.ReminderWindowDays),
		NewDispatcher(st, p.clock, p.relay),
	)

	router.Get("/notifications/:email", handler.GetNotifications)
	router.Post("/emergency/:email", handler.TriggerEmergency)
}
