package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Register handles POST /register.
func (h *ProfileHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.profileService.Register(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "User already exists",
			})
		case isValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("register failed", "email", req.Email, "action", "register", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{Status: "Success", User: user})
}

// GetUser handles GET /user/:email.
func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.profileService.Get(c.UserContext(), c.Params("email"))
	if err != nil {
		return profileError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /update/:email.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.profileService.Update(c.UserContext(), c.Params("email"), &req)
	if err != nil {
		if isValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return profileError(c, err)
	}

	return c.JSON(dto.UserResponse{Status: "Success", User: user})
}

func isValidation(err error) bool {
	return errors.Is(err, services.ErrInvalidEmail) ||
		errors.Is(err, services.ErrInvalidDOB) ||
		errors.Is(err, services.ErrInvalidAge)
}

func profileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	slog.Error("profile request failed", "email", c.Params("email"), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
