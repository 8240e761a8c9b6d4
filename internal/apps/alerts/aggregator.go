package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/vaccination"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
)

// FeedItem is a notification as shown to the user. Emergency items come from
// the store; vaccine items are derived on every read and never saved.
type FeedItem struct {
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
}

type Aggregator struct {
	projector  *vaccination.Projector
	windowDays int
}

func NewAggregator(projector *vaccination.Projector, windowDays int) *Aggregator {
	return &Aggregator{projector: projector, windowDays: windowDays}
}

// Feed merges persisted emergency alerts with reminders for open doses due
// within the window, soonest first. The sort is stable, so on equal dates
// emergency alerts stay ahead of reminders.
func (a *Aggregator) Feed(user *models.User) []FeedItem {
	items := make([]FeedItem, 0, len(user.Notifications))
	for _, n := range user.Notifications {
		if n.Type != models.NotificationTypeEmergency {
			continue
		}
		items = append(items, FeedItem{Message: n.Message, Type: n.Type, Date: n.Date})
	}

	for _, r := range a.projector.PendingEntries(user, a.windowDays) {
		items = append(items, FeedItem{
			Message: reminderMessage(r),
			Type:    models.NotificationTypeVaccine,
			Date:    r.DueDate,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items
}

func reminderMessage(r vaccination.EntryReminder) string {
	if r.DaysUntil == 0 {
		return "Today is your vaccination: " + r.Entry.VaccineName
	}
	return fmt.Sprintf("Upcoming: %s in %d days", r.Entry.VaccineName, r.DaysUntil)
}
