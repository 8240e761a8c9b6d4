package models

import (
	"time"

	"github.com/google/uuid"
)

// Vaccination is one administered or planned dose. NextDoseDate is stored as
// YYYY-MM-DD.
type Vaccination struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	VaccineName  string    `gorm:"size:120;not null;index" json:"vaccineName"`
	DoseNumber   int       `gorm:"default:0" json:"doseNumber"`
	TotalDoses   int       `gorm:"default:0" json:"totalDoses"`
	NextDoseDate string    `gorm:"size:10;index" json:"nextDoseDate"`
	Completed    bool      `gorm:"default:false" json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
}
