package vaccination

import (
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type VaccinationPlugin struct {
	clock clock.Clock
}

func New(c clock.Clock) *VaccinationPlugin {
	return &VaccinationPlugin{clock: c}
}

func (p *VaccinationPlugin) ID() string { return "vaccination" }

func (p *VaccinationPlugin) Models() []interface{} {
	return []interface{}{
		&models.Vaccination{},
	}
}

func (p *VaccinationPlugin) RegisterRoutes(router fiber.Router, st store.RecordStore, cfg *config.Config) {
	svc := NewVaccinationService(st, NewProjectorFromConfig(p.clock, cfg))
	handler := NewVaccinationHandler(svc)

	router.Get("/vaccination/schedule/:email", handler.GetSchedule)
	router.Get("/vaccination/schedule/:email/ics", handler.ExportCalendar)
	router.Post("/user/:email/vaccination", handler.AddVaccination)
	router.Delete("/user/:email/vaccination/:id", handler.DeleteVaccination)
}

// NewProjectorFromConfig builds the projector every component shares the
// settings of.
func NewProjectorFromConfig(c clock.Clock, cfg *config.Config) *Projector {
	return NewProjector(c, ProjectorConfig{
		Policy:             DoseCountPolicy(cfg.DoseCountPolicy),
		UpcomingWindowDays: cfg.UpcomingWindowDays,
		Location:           cfg.Location(),
	})
}
