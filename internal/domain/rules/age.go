package rules

import "time"

// AgeAt returns whole years between birthDate and asOf. A birthday that has
// not yet come around in asOf's year does not count.
func AgeAt(birthDate, asOf time.Time) int {
	age := asOf.Year() - birthDate.Year()
	if beforeInYear(asOf, birthDate) {
		age--
	}
	return age
}

// BirthDateRange converts an inclusive age range into the inclusive birth-date
// window it admits, evaluated at a single instant. The latest admissible birth
// date belongs to someone turning minAge on asOf's month and day, the earliest
// to someone turning maxAge the same day. Both bounds shift whole years only,
// so the window is month/day-granular by intent.
func BirthDateRange(minAge, maxAge int, asOf time.Time) (earliest, latest time.Time) {
	earliest = time.Date(asOf.Year()-maxAge, asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	latest = time.Date(asOf.Year()-minAge, asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return earliest, latest
}

// WithinBirthDateRange reports whether birthDate falls in [earliest, latest],
// comparing calendar dates only.
func WithinBirthDateRange(birthDate, earliest, latest time.Time) bool {
	day := dateOnly(birthDate)
	return !day.Before(dateOnly(earliest)) && !day.After(dateOnly(latest))
}

func beforeInYear(asOf, birthDate time.Time) bool {
	if asOf.Month() != birthDate.Month() {
		return asOf.Month() < birthDate.Month()
	}
	return asOf.Day() < birthDate.Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
