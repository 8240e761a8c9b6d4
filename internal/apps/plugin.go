package apps

import (
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the unique feature identifier, used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the feature's routes on the given Fiber router.
	RegisterRoutes(router fiber.Router, st store.RecordStore, cfg *config.Config)
}
