// Package store is the Record Store boundary: user documents keyed by email,
// their vaccination entries and their persisted notifications.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrVaccinationNotFound = errors.New("vaccination not found")
)

// ProfileUpdate carries the profile fields to change. Nil means unchanged.
type ProfileUpdate struct {
	Name      *string
	Age       *int
	DOB       *time.Time
	City      *string
	Location  *string
	Phone1    *string
	Phone2    *string
	PhoneMem1 *string
	PhoneMem2 *string
}

func (p ProfileUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Age != nil {
		cols["age"] = *p.Age
	}
	if p.DOB != nil {
		cols["dob"] = *p.DOB
	}
	if p.City != nil {
		cols["city"] = *p.City
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Phone1 != nil {
		cols["phone1"] = *p.Phone1
	}
	if p.Phone2 != nil {
		cols["phone2"] = *p.Phone2
	}
	if p.PhoneMem1 != nil {
		cols["phone_mem1"] = *p.PhoneMem1
	}
	if p.PhoneMem2 != nil {
		cols["phone_mem2"] = *p.PhoneMem2
	}
	return cols
}

// RecordStore is everything the service needs from persistence.
//
// Users returned by FindUserByEmail have Vaccinations and Notifications
// loaded in insertion order.
type RecordStore interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (*models.User, error)

	AddVaccination(ctx context.Context, email string, entry *models.Vaccination) (*models.User, error)
	DeleteVaccination(ctx context.Context, email string, id uuid.UUID) (*models.User, error)

	// AppendNotificationByPhones appends one copy of n to every user whose
	// phone1 or phone2 equals any of phones, as a single all-or-nothing
	// operation. It returns the number of users that received the record.
	AppendNotificationByPhones(ctx context.Context, phones []string, n models.Notification) (int64, error)

	// RegisteredPhones returns the subset of phones that belong to some user.
	RegisteredPhones(ctx context.Context, phones []string) ([]string, error)

	// EachUserBatch walks every user with vaccinations loaded.
	EachUserBatch(ctx context.Context, size int, fn func([]models.User) error) error
}
