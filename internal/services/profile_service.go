package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrInvalidDOB   = errors.New("dob must be YYYY-MM-DD")
	ErrInvalidAge   = errors.New("age must be a non-negative whole number")
)

type ProfileService struct {
	store store.RecordStore
	loc   *time.Location
}

func NewProfileService(st store.RecordStore, loc *time.Location) *ProfileService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProfileService{store: st, loc: loc}
}

func (s *ProfileService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	user := &models.User{
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		City:      strings.TrimSpace(req.City),
		Location:  strings.TrimSpace(req.Location),
		Phone1:    strings.TrimSpace(req.Phone1),
		Phone2:    strings.TrimSpace(req.Phone2),
		PhoneMem1: strings.TrimSpace(req.PhoneMem1),
		PhoneMem2: strings.TrimSpace(req.PhoneMem2),
	}

	age, err := s.age(req.Age)
	if err != nil {
		return nil, err
	}
	user.Age = age

	if strings.TrimSpace(req.DOB) != "" {
		dob, err := s.dob(req.DOB)
		if err != nil {
			return nil, err
		}
		user.DOB = &dob
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *ProfileService) Get(ctx context.Context, email string) (*models.User, error) {
	return s.store.FindUserByEmail(ctx, email)
}

// Update applies a partial profile change. Vaccinations and notifications are
// never touched here.
func (s *ProfileService) Update(ctx context.Context, email string, req *dto.UpdateProfileRequest) (*models.User, error) {
	update := store.ProfileUpdate{
		Name:      trimmed(req.Name),
		City:      trimmed(req.City),
		Location:  trimmed(req.Location),
		Phone1:    trimmed(req.Phone1),
		Phone2:    trimmed(req.Phone2),
		PhoneMem1: trimmed(req.PhoneMem1),
		PhoneMem2: trimmed(req.PhoneMem2),
	}

	age, err := s.age(req.Age)
	if err != nil {
		return nil, err
	}
	update.Age = age

	if req.DOB != nil && strings.TrimSpace(*req.DOB) != "" {
		dob, err := s.dob(*req.DOB)
		if err != nil {
			return nil, err
		}
		update.DOB = &dob
	}

	user, err := s.store.UpdateProfile(ctx, email, update)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *ProfileService) age(v dto.FlexInt) (*int, error) {
	if !v.Set {
		return nil, nil
	}
	if v.Value < 0 {
		return nil, ErrInvalidAge
	}
	age := v.Value
	return &age, nil
}

func (s *ProfileService) dob(raw string) (time.Time, error) {
	t, err := clock.ParseDate(raw, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDOB
	}
	return t, nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " /")
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
