package timeutil

import "time"

// DaysIn generates every calendar day from start through end, inclusive.
// An inverted range yields nil.
func DaysIn(start, end time.Time) []time.Time {
	s, e := Midnight(start), Midnight(end)
	if e.Before(s) {
		return nil
	}
	days := make([]time.Time, 0, DaysBetween(s, e)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeeksIn generates the Monday of every ISO week touching [start, end].
func WeeksIn(start, end time.Time) []time.Time {
	s, e := WeekStart(start), Midnight(end)
	if e.Before(s) {
		return nil
	}
	var weeks []time.Time
	for w := s; !w.After(e); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

// MonthsIn generates the first day of every month touching [start, end].
func MonthsIn(start, end time.Time) []time.Time {
	s, e := MonthStart(start), Midnight(end)
	if e.Before(s) {
		return nil
	}
	var months []time.Time
	for m := s; !m.After(e); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// YearsIn generates January 1st of every year touching [start, end].
func YearsIn(start, end time.Time) []time.Time {
	s, e := YearStart(start), Midnight(end)
	if e.Before(s) {
		return nil
	}
	var years []time.Time
	for y := s; !y.After(e); y = y.AddDate(1, 0, 0) {
		years = append(years, y)
	}
	return years
}
