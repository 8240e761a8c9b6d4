package vaccination

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusDue       Status = "due"
	StatusUpcoming  Status = "upcoming"
	StatusScheduled Status = "scheduled"
	StatusUnknown   Status = "unknown"
)

// DoseCountPolicy decides which history entries count as a taken dose.
type DoseCountPolicy string

const (
	CountAllEntries       DoseCountPolicy = "all"
	CountCompletedEntries DoseCountPolicy = "completed"
)

// ScheduleStatus is the derived state of one calendar vaccine for one user.
type ScheduleStatus struct {
	VaccineName      string     `json:"vaccineName"`
	DosesRecommended int        `json:"dosesRecommended"`
	DosesTaken       int        `json:"dosesTaken"`
	NextDoseIndex    int        `json:"nextDoseIndex"`
	NextDueDate      *time.Time `json:"nextDueDate"`
	Status           Status     `json:"status"`
}

// EntryReminder is a non-completed history entry whose next dose date falls
// inside a look-ahead window.
type EntryReminder struct {
	Entry     models.Vaccination
	DueDate   time.Time
	DaysUntil int
}

type ProjectorConfig struct {
	Policy             DoseCountPolicy
	UpcomingWindowDays int
	Location           *time.Location
}

// Projector derives schedule state from a user's birth-date estimate and
// dose history. It holds no state besides its configuration.
type Projector struct {
	clock    clock.Clock
	cfg      ProjectorConfig
	calendar []CalendarEntry
}

func NewProjector(c clock.Clock, cfg ProjectorConfig) *Projector {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Policy == "" {
		cfg.Policy = CountAllEntries
	}
	return &Projector{clock: c, cfg: cfg, calendar: Calendar()}
}

// Today is midnight of the current day in the configured location.
func (p *Projector) Today() time.Time {
	return clock.StartOfDay(p.clock.Now(), p.cfg.Location)
}

func (p *Projector) Location() *time.Location {
	return p.cfg.Location
}

// Project returns one status per calendar vaccine, in calendar order.
// History entries for vaccines outside the calendar are ignored.
func (p *Projector) Project(user *models.User) []ScheduleStatus {
	today := p.Today()
	birth, hasBirth := user.BirthDateEstimate(today)

	out := make([]ScheduleStatus, 0, len(p.calendar))
	for _, vac := range p.calendar {
		taken := p.dosesTaken(user.Vaccinations, vac.VaccineName)
		row := ScheduleStatus{
			VaccineName:      vac.VaccineName,
			DosesRecommended: len(vac.AgesMonths),
			DosesTaken:       taken,
			NextDoseIndex:    taken,
		}

		switch {
		case taken >= len(vac.AgesMonths):
			row.Status = StatusCompleted
		case !hasBirth:
			row.Status = StatusUnknown
		default:
			due := birth.AddDate(0, vac.AgesMonths[taken], 0)
			row.NextDueDate = &due
			row.Status = p.classify(today, due)
		}
		out = append(out, row)
	}
	return out
}

func (p *Projector) classify(today, due time.Time) Status {
	if !due.After(today) {
		return StatusDue
	}
	if clock.DaysUntil(today, due) <= p.cfg.UpcomingWindowDays {
		return StatusUpcoming
	}
	return StatusScheduled
}

func (p *Projector) dosesTaken(history []models.Vaccination, vaccineName string) int {
	n := 0
	for _, h := range history {
		if h.VaccineName != vaccineName {
			continue
		}
		if p.cfg.Policy == CountCompletedEntries && !h.Completed {
			continue
		}
		n++
	}
	return n
}

// PendingEntries lists non-completed history entries due between today and
// today+windowDays inclusive, in history order. Entries with an unreadable
// date are skipped.
func (p *Projector) PendingEntries(user *models.User, windowDays int) []EntryReminder {
	today := p.Today()

	var out []EntryReminder
	for _, v := range user.Vaccinations {
		if v.Completed {
			continue
		}
		due, err := clock.ParseDate(v.NextDoseDate, p.cfg.Location)
		if err != nil {
			continue
		}
		days := clock.DaysUntil(today, due)
		if days < 0 || days > windowDays {
			continue
		}
		out = append(out, EntryReminder{Entry: v, DueDate: due, DaysUntil: days})
	}
	return out
}
