package timeutil

import "time"

const (
	layoutISO   = "2006-01-02"
	layoutMonth = "Jan 2006"
	layoutYear  = "2006"
)

// Midnight normalizes t to midnight UTC so calendar-day arithmetic is not
// disturbed by wall-clock components or DST transitions.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// AddDays shifts t by n calendar days, keeping the midnight normalization.
func AddDays(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsToday reports whether t falls on the current calendar day.
func IsToday(t time.Time) bool {
	return SameDay(t, time.Now())
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	d := Midnight(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// YearStart returns January 1st of the year containing t.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// ISOWeek returns the ISO 8601 week number for t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// FormatISO renders t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(layoutISO)
}

// FormatMonth renders t as an abbreviated month header, e.g. "Sep 2024".
func FormatMonth(t time.Time) string {
	return t.Format(layoutMonth)
}

// FormatYear renders the four digit year of t.
func FormatYear(t time.Time) string {
	return t.Format(layoutYear)
}
