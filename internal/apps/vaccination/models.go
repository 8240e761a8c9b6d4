package vaccination

import (
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
)

// --- DTOs ---

type AddVaccinationRequest struct {
	VaccineName  string      `json:"vaccineName"`
	DoseNumber   dto.FlexInt `json:"doseNumber"`
	TotalDoses   dto.FlexInt `json:"totalDoses"`
	NextDoseDate string      `json:"nextDoseDate"`
}

type ScheduleResponse struct {
	User     *models.User     `json:"user"`
	Schedule []ScheduleStatus `json:"schedule"`
}
