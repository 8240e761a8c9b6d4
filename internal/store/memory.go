package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every document in process memory. Each method holds the
// store lock for its whole duration, which gives AppendNotificationByPhones
// the same all-or-nothing behaviour as the SQL statement.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
		now:   time.Now,
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrUserExists
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.SchemaVersion = models.CurrentUserSchema
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	stored := cloneUser(user)
	stored.Vaccinations = nil
	stored.Notifications = nil
	s.users[user.Email] = stored
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, email string, update ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Age != nil {
		age := *update.Age
		u.Age = &age
	}
	if update.DOB != nil {
		dob := *update.DOB
		u.DOB = &dob
	}
	if update.City != nil {
		u.City = *update.City
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.Phone1 != nil {
		u.Phone1 = *update.Phone1
	}
	if update.Phone2 != nil {
		u.Phone2 = *update.Phone2
	}
	if update.PhoneMem1 != nil {
		u.PhoneMem1 = *update.PhoneMem1
	}
	if update.PhoneMem2 != nil {
		u.PhoneMem2 = *update.PhoneMem2
	}
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

func (s *MemoryStore) AddVaccination(_ context.Context, email string, entry *models.Vaccination) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.UserID = u.ID
	entry.CreatedAt = s.now()
	u.Vaccinations = append(u.Vaccinations, *entry)
	return cloneUser(u), nil
}

func (s *MemoryStore) DeleteVaccination(_ context.Context, email string, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	for i, v := range u.Vaccinations {
		if v.ID == id {
			u.Vaccinations = append(u.Vaccinations[:i:i], u.Vaccinations[i+1:]...)
			return cloneUser(u), nil
		}
	}
	return nil, ErrVaccinationNotFound
}

func (s *MemoryStore) AppendNotificationByPhones(_ context.Context, phones []string, n models.Notification) (int64, error) {
	if len(phones) == 0 {
		return 0, nil
	}
	targets := make(map[string]bool, len(phones))
	for _, p := range phones {
		targets[p] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched int64
	for _, u := range s.users {
		if !targets[u.Phone1] && !targets[u.Phone2] {
			continue
		}
		rec := n
		rec.ID = uuid.New()
		rec.UserID = u.ID
		rec.CreatedAt = s.now()
		u.Notifications = append(u.Notifications, rec)
		matched++
	}
	return matched, nil
}

func (s *MemoryStore) RegisteredPhones(_ context.Context, phones []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, models.User{Phone1: u.Phone1, Phone2: u.Phone2})
	}
	return matchPhones(phones, users), nil
}

// EachUserBatch visits users ordered by email so repeated walks are stable.
func (s *MemoryStore) EachUserBatch(ctx context.Context, size int, fn func([]models.User) error) error {
	if size <= 0 {
		size = 100
	}

	s.mu.RLock()
	emails := make([]string, 0, len(s.users))
	for email := range s.users {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	all := make([]models.User, 0, len(emails))
	for _, email := range emails {
		all = append(all, *cloneUser(s.users[email]))
	}
	s.mu.RUnlock()

	for start := 0; start < len(all); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + size
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	if u.DOB != nil {
		dob := *u.DOB
		c.DOB = &dob
	}
	c.Vaccinations = append([]models.Vaccination(nil), u.Vaccinations...)
	c.Notifications = append([]models.Notification(nil), u.Notifications...)
	return &c
}
