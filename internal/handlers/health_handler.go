package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store store.RecordStore
}

func NewHealthHandler(st store.RecordStore) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, storeStatus := "ok", "ok"
	if err := h.store.Ping(c.UserContext()); err != nil {
		status = "degraded"
		storeStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	})
}
