package vaccination

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrMissingVaccineName = errors.New("vaccineName is required")
	ErrInvalidDate        = errors.New("nextDoseDate must be a date (YYYY-MM-DD)")
	ErrInvalidDose        = errors.New("doseNumber and totalDoses must be non-negative whole numbers")
)

type VaccinationService struct {
	store     store.RecordStore
	projector *Projector
}

func NewVaccinationService(st store.RecordStore, projector *Projector) *VaccinationService {
	return &VaccinationService{store: st, projector: projector}
}

// Schedule loads the user and projects their calendar status.
func (s *VaccinationService) Schedule(ctx context.Context, email string) (*models.User, []ScheduleStatus, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return user, s.projector.Project(user), nil
}

// AddVaccination validates the request, normalizes the date to YYYY-MM-DD and
// appends a new, not yet completed entry.
func (s *VaccinationService) AddVaccination(ctx context.Context, email string, req *AddVaccinationRequest) (*models.User, error) {
	name := strings.TrimSpace(req.VaccineName)
	if name == "" {
		return nil, ErrMissingVaccineName
	}

	due, err := clock.ParseDate(req.NextDoseDate, s.projector.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	if req.DoseNumber.Value < 0 || req.TotalDoses.Value < 0 {
		return nil, ErrInvalidDose
	}

	entry := &models.Vaccination{
		ID:           uuid.New(),
		VaccineName:  name,
		DoseNumber:   req.DoseNumber.Value,
		TotalDoses:   req.TotalDoses.Value,
		NextDoseDate: due.Format(clock.DateLayout),
		Completed:    false,
	}

	user, err := s.store.AddVaccination(ctx, email, entry)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add vaccination: %w", err)
	}
	return user, nil
}

// DeleteVaccination removes exactly the entry with the given id. A malformed
// id is reported as not found.
func (s *VaccinationService) DeleteVaccination(ctx context.Context, email, rawID string) (*models.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		if _, ferr := s.store.FindUserByEmail(ctx, email); ferr != nil {
			return nil, ferr
		}
		return nil, store.ErrVaccinationNotFound
	}

	user, err := s.store.DeleteVaccination(ctx, email, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, store.ErrVaccinationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete vaccination: %w", err)
	}
	return user, nil
}
