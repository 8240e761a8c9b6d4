package vaccination

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const (
	icsProdID      = "-//Medmitra//Vaccination Schedule//EN"
	icsCalName     = "Vaccinations"
	icsDomain      = "medmitra"
	icsAlarmBefore = "-P1D"
)

var icsEmptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + icsProdID + "\r\nEND:VCALENDAR\r\n"

// CalendarFeed renders the user's open doses as an iCalendar document:
// projected calendar doses plus every non-completed history entry.
func (s *VaccinationService) CalendarFeed(ctx context.Context, email string) ([]byte, error) {
	user, schedule, err := s.Schedule(ctx, email)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProdID)
	cal.Props.SetText("X-WR-CALNAME", icsCalName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	stamp := s.projector.clock.Now().UTC()

	for _, row := range schedule {
		if row.NextDueDate == nil || row.Status == StatusCompleted {
			continue
		}
		uid := fmt.Sprintf("schedule-%s-%d-%s@%s", row.VaccineName, row.NextDoseIndex, user.ID, icsDomain)
		cal.Children = append(cal.Children, doseEvent(uid, "Vaccination Due: "+row.VaccineName, *row.NextDueDate, stamp).Component)
	}

	for _, v := range user.Vaccinations {
		if v.Completed {
			continue
		}
		due, err := time.ParseInLocation("2006-01-02", v.NextDoseDate, s.projector.Location())
		if err != nil {
			continue
		}
		uid := fmt.Sprintf("entry-%s@%s", v.ID, icsDomain)
		summary := fmt.Sprintf("Vaccination: %s (dose %d)", v.VaccineName, v.DoseNumber)
		cal.Children = append(cal.Children, doseEvent(uid, summary, due, stamp).Component)
	}

	if len(cal.Children) == 0 {
		return []byte(icsEmptyCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func doseEvent(uid, summary string, day, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetText(ical.PropSummary, summary)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(day)
	event.Props.Set(start)

	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, summary)
	// Set directly so the value is not tagged VALUE=TEXT.
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = icsAlarmBefore
	alarm.Props.Set(trigger)
	event.Children = append(event.Children, alarm)

	return event
}
