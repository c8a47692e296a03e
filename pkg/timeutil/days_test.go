package timeutil

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(day(2024, time.September, 1), day(2024, time.September, 5)); got != 4 {
		t.Fatalf("expected 4 days, got %d", got)
	}
	if got := DaysBetween(day(2024, time.September, 5), day(2024, time.September, 1)); got != -4 {
		t.Fatalf("expected -4 days, got %d", got)
	}
	if got := DaysBetween(day(2024, time.February, 28), day(2024, time.March, 1)); got != 2 {
		t.Fatalf("expected leap year to span 2 days, got %d", got)
	}
}

func TestDaysBetweenIgnoresClock(t *testing.T) {
	a := time.Date(2024, time.September, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.September, 2, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("expected 1 day across midnight, got %d", got)
	}
}

func TestWeekStart(t *testing.T) {
	// 2024-09-05 is a Thursday; its ISO week starts Monday 2024-09-02.
	got := WeekStart(day(2024, time.September, 5))
	if !got.Equal(day(2024, time.September, 2)) {
		t.Fatalf("expected 2024-09-02, got %s", FormatISO(got))
	}
	// A Sunday belongs to the week that started six days earlier.
	got = WeekStart(day(2024, time.September, 8))
	if !got.Equal(day(2024, time.September, 2)) {
		t.Fatalf("expected Sunday to fold back to 2024-09-02, got %s", FormatISO(got))
	}
}

func TestIsWeekend(t *testing.T) {
	if !IsWeekend(day(2024, time.September, 7)) {
		t.Fatalf("expected Saturday to be a weekend")
	}
	if !IsWeekend(day(2024, time.September, 8)) {
		t.Fatalf("expected Sunday to be a weekend")
	}
	if IsWeekend(day(2024, time.September, 9)) {
		t.Fatalf("expected Monday to be a weekday")
	}
}

func TestDaysIn(t *testing.T) {
	days := DaysIn(day(2024, time.September, 1), day(2024, time.September, 5))
	if len(days) != 5 {
		t.Fatalf("expected 5 days inclusive, got %d", len(days))
	}
	if !days[0].Equal(day(2024, time.September, 1)) || !days[4].Equal(day(2024, time.September, 5)) {
		t.Fatalf("unexpected bounds: %s .. %s", FormatISO(days[0]), FormatISO(days[4]))
	}
	if DaysIn(day(2024, time.September, 5), day(2024, time.September, 1)) != nil {
		t.Fatalf("expected nil for inverted range")
	}
}

func TestMonthsIn(t *testing.T) {
	months := MonthsIn(day(2024, time.November, 15), day(2025, time.February, 2))
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	if !months[0].Equal(day(2024, time.November, 1)) {
		t.Fatalf("expected range to start at month boundary, got %s", FormatISO(months[0]))
	}
	if !months[3].Equal(day(2025, time.February, 1)) {
		t.Fatalf("expected range to end in February, got %s", FormatISO(months[3]))
	}
}

func TestWeeksInCoversPartialWeeks(t *testing.T) {
	// Thursday through the following Tuesday touches two ISO weeks.
	weeks := WeeksIn(day(2024, time.September, 5), day(2024, time.September, 10))
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if !weeks[0].Equal(day(2024, time.September, 2)) {
		t.Fatalf("unexpected first week start: %s", FormatISO(weeks[0]))
	}
}

func TestISOWeek(t *testing.T) {
	if got := ISOWeek(day(2024, time.January, 1)); got != 1 {
		t.Fatalf("expected week 1, got %d", got)
	}
	if got := ISOWeek(day(2023, time.January, 1)); got != 52 {
		t.Fatalf("expected 2023-01-01 to fall in week 52, got %d", got)
	}
}
