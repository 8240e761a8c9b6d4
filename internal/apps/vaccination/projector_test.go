package vaccination

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newProjector(now time.Time, policy DoseCountPolicy) *Projector {
	return NewProjector(clock.Fixed(now), ProjectorConfig{
		Policy:             policy,
		UpcomingWindowDays: 30,
		Location:           time.UTC,
	})
}

func statusFor(t *testing.T, rows []ScheduleStatus, name string) ScheduleStatus {
	t.Helper()
	for _, r := range rows {
		if r.VaccineName == name {
			return r
		}
	}
	t.Fatalf("no status for %s", name)
	return ScheduleStatus{}
}

func entries(name string, n int) []models.Vaccination {
	out := make([]models.Vaccination, n)
	for i := range out {
		out[i] = models.Vaccination{VaccineName: name}
	}
	return out
}

func TestProject_FirstDoseDueAtBirth(t *testing.T) {
	dob := date(2024, 1, 1)
	p := newProjector(date(2024, 1, 1), CountAllEntries)

	opv := statusFor(t, p.Project(&models.User{DOB: &dob}), "OPV")

	assert.Equal(t, StatusDue, opv.Status)
	require.NotNil(t, opv.NextDueDate)
	assert.Equal(t, date(2024, 1, 1), *opv.NextDueDate)
	assert.Equal(t, 3, opv.DosesRecommended)
	assert.Equal(t, 0, opv.DosesTaken)
}

func TestProject_NextDoseIndexFollowsHistory(t *testing.T) {
	dob := date(2024, 1, 1)
	p := newProjector(date(2024, 3, 1), CountAllEntries)

	dpt := statusFor(t, p.Project(&models.User{DOB: &dob, Vaccinations: entries("DPT", 2)}), "DPT")

	assert.Equal(t, 2, dpt.DosesTaken)
	assert.Equal(t, 2, dpt.NextDoseIndex)
	require.NotNil(t, dpt.NextDueDate)
	assert.Equal(t, date(2024, 7, 1), *dpt.NextDueDate)
	assert.Equal(t, StatusScheduled, dpt.Status)
}

func TestProject_CompletedIgnoresNow(t *testing.T) {
	dob := date(2024, 1, 1)
	history := append(entries("Measles", 2), entries("BCG", 3)...)

	for _, now := range []time.Time{date(2023, 1, 1), date(2024, 1, 1), date(2040, 1, 1)} {
		rows := newProjector(now, CountAllEntries).Project(&models.User{DOB: &dob, Vaccinations: history})
		for _, name := range []string{"Measles", "BCG"} {
			row := statusFor(t, rows, name)
			assert.Equal(t, StatusCompleted, row.Status, name)
			assert.Nil(t, row.NextDueDate, name)
		}
	}
}

func TestProject_UnknownWithoutBirthDate(t *testing.T) {
	rows := newProjector(date(2024, 1, 1), CountAllEntries).Project(&models.User{Vaccinations: entries("OPV", 1)})

	require.Len(t, rows, len(Calendar()))
	for _, r := range rows {
		assert.Equal(t, StatusUnknown, r.Status, r.VaccineName)
		assert.Nil(t, r.NextDueDate)
	}
	assert.Equal(t, 1, statusFor(t, rows, "OPV").DosesTaken)
}

func TestProject_Classification(t *testing.T) {
	dob := date(2024, 1, 1)
	user := &models.User{DOB: &dob}

	// Measles first dose is at 9 months: 2024-10-01.
	tests := []struct {
		now  time.Time
		want Status
	}{
		{date(2024, 10, 2), StatusDue},
		{date(2024, 10, 1), StatusDue},
		{date(2024, 9, 30), StatusUpcoming},
		{date(2024, 9, 1), StatusUpcoming},
		{date(2024, 8, 31), StatusScheduled},
	}
	for _, tt := range tests {
		row := statusFor(t, newProjector(tt.now, CountAllEntries).Project(user), "Measles")
		assert.Equal(t, tt.want, row.Status, tt.now.Format(clock.DateLayout))
	}
}

func TestProject_AgeEstimate(t *testing.T) {
	age := 2
	now := date(2025, 6, 15)
	rows := newProjector(now, CountAllEntries).Project(&models.User{Age: &age})

	bcg := statusFor(t, rows, "BCG")
	require.NotNil(t, bcg.NextDueDate)
	assert.Equal(t, date(2023, 6, 15), *bcg.NextDueDate)
	assert.Equal(t, StatusDue, bcg.Status)
}

func TestProject_CompletedOnlyPolicy(t *testing.T) {
	dob := date(2024, 1, 1)
	history := []models.Vaccination{
		{VaccineName: "HepB", Completed: true},
		{VaccineName: "HepB", Completed: false},
	}
	user := &models.User{DOB: &dob, Vaccinations: history}

	all := statusFor(t, newProjector(date(2024, 1, 1), CountAllEntries).Project(user), "HepB")
	done := statusFor(t, newProjector(date(2024, 1, 1), CountCompletedEntries).Project(user), "HepB")

	assert.Equal(t, 2, all.DosesTaken)
	assert.Equal(t, 1, done.DosesTaken)
	assert.Equal(t, date(2024, 7, 1), *all.NextDueDate)
	assert.Equal(t, date(2024, 2, 1), *done.NextDueDate)
}

func TestProject_IgnoresUnknownVaccines(t *testing.T) {
	dob := date(2024, 1, 1)
	rows := newProjector(date(2024, 1, 1), CountAllEntries).Project(&models.User{
		DOB:          &dob,
		Vaccinations: []models.Vaccination{{VaccineName: "Rabies"}, {VaccineName: "bcg"}},
	})

	require.Len(t, rows, len(Calendar()))
	for _, r := range rows {
		assert.Zero(t, r.DosesTaken, r.VaccineName)
	}
}

func TestProject_OrderIndependent(t *testing.T) {
	dob := date(2024, 1, 1)
	p := newProjector(date(2024, 5, 1), CountAllEntries)
	a := []models.Vaccination{{VaccineName: "DPT"}, {VaccineName: "OPV"}, {VaccineName: "DPT"}}
	b := []models.Vaccination{{VaccineName: "OPV"}, {VaccineName: "DPT"}, {VaccineName: "DPT"}}

	assert.Equal(t, p.Project(&models.User{DOB: &dob, Vaccinations: a}), p.Project(&models.User{DOB: &dob, Vaccinations: b}))
}

func TestPendingEntries(t *testing.T) {
	p := newProjector(date(2025, 1, 10), CountAllEntries)
	user := &models.User{Vaccinations: []models.Vaccination{
		{VaccineName: "Yesterday", NextDoseDate: "2025-01-09"},
		{VaccineName: "Today", NextDoseDate: "2025-01-10"},
		{VaccineName: "Done", NextDoseDate: "2025-01-10", Completed: true},
		{VaccineName: "Week", NextDoseDate: "2025-01-17"},
		{VaccineName: "TooFar", NextDoseDate: "2025-01-18"},
		{VaccineName: "Garbled", NextDoseDate: "soon"},
	}}

	got := p.PendingEntries(user, 7)
	require.Len(t, got, 2)
	assert.Equal(t, "Today", got[0].Entry.VaccineName)
	assert.Equal(t, 0, got[0].DaysUntil)
	assert.Equal(t, "Week", got[1].Entry.VaccineName)
	assert.Equal(t, 7, got[1].DaysUntil)

	todayOnly := p.PendingEntries(user, 0)
	require.Len(t, todayOnly, 1)
	assert.Equal(t, "Today", todayOnly[0].Entry.VaccineName)
}

func TestCalendar_IsACopy(t *testing.T) {
	cal := Calendar()
	cal[0].AgesMonths[0] = 99

	ages, ok := Ages("BCG")
	require.True(t, ok)
	assert.Equal(t, []int{0}, ages)

	_, ok = Ages("Rabies")
	assert.False(t, ok)
}
