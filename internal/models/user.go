package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CurrentUserSchema is bumped whenever the persisted shape of User changes.
const CurrentUserSchema = 1

// User is one registered account. Email is the natural key.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchemaVersion int        `gorm:"not null;default:1" json:"schemaVersion"`
	Email         string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name          string     `gorm:"size:255" json:"name"`
	Age           *int       `json:"age,omitempty"`
	DOB           *time.Time `gorm:"type:date" json:"dob,omitempty"`
	City          string     `gorm:"size:120" json:"city"`
	Location      string     `gorm:"size:255" json:"location"`

	Phone1    string `gorm:"size:32;index" json:"phone1"`
	Phone2    string `gorm:"size:32;index" json:"phone2"`
	PhoneMem1 string `gorm:"column:phone_mem1;size:32" json:"phonemem1"`
	PhoneMem2 string `gorm:"column:phone_mem2;size:32" json:"phonemem2"`

	Vaccinations  []Vaccination  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"vaccinations"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"notifications"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactPhones are the account's own numbers, used to match emergency targets.
func (u *User) ContactPhones() []string {
	return nonEmpty(u.Phone1, u.Phone2)
}

// EmergencyContactPhones are the numbers this user wants alerted.
func (u *User) EmergencyContactPhones() []string {
	return nonEmpty(u.PhoneMem1, u.PhoneMem2)
}

// CallbackPhone is the first self-reported phone number, if any.
func (u *User) CallbackPhone() string {
	if p := u.ContactPhones(); len(p) > 0 {
		return p[0]
	}
	return ""
}

// BirthDateEstimate prefers the explicit date of birth and falls back to
// now minus a positive whole-number age. The result is midnight in now's
// location.
func (u *User) BirthDateEstimate(now time.Time) (time.Time, bool) {
	loc := now.Location()
	if u.DOB != nil && !u.DOB.IsZero() {
		y, m, d := u.DOB.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	if u.Age != nil && *u.Age > 0 {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(-*u.Age, 0, 0), true
	}
	return time.Time{}, false
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
