package vaccination

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type VaccinationHandler struct {
	service *VaccinationService
}

func NewVaccinationHandler(service *VaccinationService) *VaccinationHandler {
	return &VaccinationHandler{service: service}
}

// GetSchedule handles GET /vaccination/schedule/:email.
func (h *VaccinationHandler) GetSchedule(c *fiber.Ctx) error {
	user, schedule, err := h.service.Schedule(c.UserContext(), c.Params("email"))
	if err != nil {
		return storeError(c, err, "Failed to load schedule")
	}
	return c.JSON(ScheduleResponse{User: user, Schedule: schedule})
}

// ExportCalendar handles GET /vaccination/schedule/:email/ics.
func (h *VaccinationHandler) ExportCalendar(c *fiber.Ctx) error {
	data, err := h.service.CalendarFeed(c.UserContext(), c.Params("email"))
	if err != nil {
		return storeError(c, err, "Failed to build calendar")
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="vaccinations.ics"`)
	return c.Send(data)
}

// AddVaccination handles POST /user/:email/vaccination.
func (h *VaccinationHandler) AddVaccination(c *fiber.Ctx) error {
	var req AddVaccinationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.service.AddVaccination(c.UserContext(), c.Params("email"), &req)
	if err != nil {
		if errors.Is(err, ErrMissingVaccineName) || errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrInvalidDose) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return storeError(c, err, "Failed to add vaccination")
	}

	return c.JSON(dto.UserResponse{Status: "Success", User: user})
}

// DeleteVaccination handles DELETE /user/:email/vaccination/:id.
func (h *VaccinationHandler) DeleteVaccination(c *fiber.Ctx) error {
	user, err := h.service.DeleteVaccination(c.UserContext(), c.Params("email"), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrVaccinationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Vaccination record not found",
			})
		}
		return storeError(c, err, "Failed to delete vaccination")
	}

	return c.JSON(dto.UserResponse{Status: "Success", User: user})
}

func storeError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	slog.Error(message, "action", c.Method()+" "+c.Route().Path, "email", c.Params("email"), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
