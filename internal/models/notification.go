package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeVaccine   = "vaccine"
	NotificationTypeEmergency = "emergency"
)

// Notification is a persisted alert. Only emergency alerts are written;
// vaccine reminders are derived on read.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:20;not null;index" json:"type"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}
