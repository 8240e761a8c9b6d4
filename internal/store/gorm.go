package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.SchemaVersion = models.CurrentUserSchema
	if err := s.db.WithContext(ctx).Omit("Vaccinations", "Notifications").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(s.db.WithContext(ctx), email)
}

func (s *GormStore) findUser(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := tx.
		Preload("Vaccinations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Notifications", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, created_at ASC") }).
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *GormStore) userID(tx *gorm.DB, email string) (uuid.UUID, error) {
	var user models.User
	err := tx.Select("id").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user.ID, nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (*models.User, error) {
	db := s.db.WithContext(ctx)
	id, err := s.userID(db, email)
	if err != nil {
		return nil, err
	}

	if cols := update.columns(); len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := db.Model(&models.User{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return s.findUser(db, email)
}

// AddVaccination inserts a single row, so concurrent adds for the same user
// never overwrite each other.
func (s *GormStore) AddVaccination(ctx context.Context, email string, entry *models.Vaccination) (*models.User, error) {
	db := s.db.WithContext(ctx)
	id, err := s.userID(db, email)
	if err != nil {
		return nil, err
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.UserID = id
	if err := db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add vaccination: %w", err)
	}
	return s.findUser(db, email)
}

func (s *GormStore) DeleteVaccination(ctx context.Context, email string, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := s.userID(tx, email)
		if err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Vaccination{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete vaccination: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrVaccinationNotFound
		}

		user, err = s.findUser(tx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AppendNotificationByPhones is one INSERT ... SELECT statement. Postgres
// runs it atomically, so either every matching user gets the row or none do,
// and concurrent calls each add their own row.
func (s *GormStore) AppendNotificationByPhones(ctx context.Context, phones []string, n models.Notification) (int64, error) {
	if len(phones) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, user_id, message, type, date, created_at)
		 SELECT gen_random_uuid(), u.id, ?, ?, ?, ?
		 FROM users u
		 WHERE u.phone1 IN ? OR u.phone2 IN ?`,
		n.Message, n.Type, n.Date, time.Now(), phones, phones,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to append notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) RegisteredPhones(ctx context.Context, phones []string) ([]string, error) {
	if len(phones) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Select("phone1", "phone2").
		Where("phone1 IN ? OR phone2 IN ?", phones, phones).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up phones: %w", err)
	}
	return matchPhones(phones, users), nil
}

func (s *GormStore) EachUserBatch(ctx context.Context, size int, fn func([]models.User) error) error {
	if size <= 0 {
		size = 100
	}
	var batch []models.User
	result := s.db.WithContext(ctx).
		Preload("Vaccinations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	if result.Error != nil {
		return fmt.Errorf("failed to scan users: %w", result.Error)
	}
	return nil
}

// matchPhones keeps the order of phones.
func matchPhones(phones []string, users []models.User) []string {
	owned := make(map[string]bool)
	for _, u := range users {
		for _, p := range u.ContactPhones() {
			owned[p] = true
		}
	}
	var out []string
	for _, p := range phones {
		if owned[p] {
			out = append(out, p)
		}
	}
	return out
}
