package alerts

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AlertsHandler struct {
	store      store.RecordStore
	aggregator *Aggregator
	dispatcher *Dispatcher
}

func NewAlertsHandler(st store.RecordStore, aggregator *Aggregator, dispatcher *Dispatcher) *AlertsHandler {
	return &AlertsHandler{store: st, aggregator: aggregator, dispatcher: dispatcher}
}

// GetNotifications handles GET /notifications/:email - the merged feed.
func (h *AlertsHandler) GetNotifications(c *fiber.Ctx) error {
	user, err := h.store.FindUserByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("failed to load notifications", "email", c.Params("email"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load notifications",
		})
	}

	return c.JSON(FeedResponse{Notifications: h.aggregator.Feed(user)})
}

// TriggerEmergency handles POST /emergency/:email.
func (h *AlertsHandler) TriggerEmergency(c *fiber.Ctx) error {
	result, err := h.dispatcher.Dispatch(c.UserContext(), c.Params("email"))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("emergency dispatch failed", "email", c.Params("email"), "action", "emergency_dispatch", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send emergency alert",
		})
	}

	return c.JSON(result)
}
