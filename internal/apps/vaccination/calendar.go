package vaccination

// CalendarEntry is one vaccine of the reference immunization calendar.
type CalendarEntry struct {
	VaccineName string
	AgesMonths  []int
}

var recommendedSchedule = []CalendarEntry{
	{VaccineName: "BCG", AgesMonths: []int{0}},
	{VaccineName: "HepB", AgesMonths: []int{0, 1, 6}},
	{VaccineName: "OPV", AgesMonths: []int{0, 6, 14}},
	{VaccineName: "DPT", AgesMonths: []int{2, 4, 6, 18, 60}},
	{VaccineName: "Measles", AgesMonths: []int{9, 15}},
}

// Calendar returns a copy of the reference calendar in its canonical order.
func Calendar() []CalendarEntry {
	out := make([]CalendarEntry, len(recommendedSchedule))
	for i, e := range recommendedSchedule {
		out[i] = CalendarEntry{
			VaccineName: e.VaccineName,
			AgesMonths:  append([]int(nil), e.AgesMonths...),
		}
	}
	return out
}

// Ages returns the recommended administration ages, in months since birth,
// for an exact vaccine name.
func Ages(vaccineName string) ([]int, bool) {
	for _, e := range recommendedSchedule {
		if e.VaccineName == vaccineName {
			return append([]int(nil), e.AgesMonths...), true
		}
	}
	return nil, false
}
