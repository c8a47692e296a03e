package timeline

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func scale(mode ViewMode, cell int) Scale {
	return Scale{
		Start:     day(2024, time.September, 1),
		End:       day(2024, time.December, 31),
		Mode:      mode,
		CellWidth: cell,
	}
}

func TestDateToOffsetDayMode(t *testing.T) {
	s := scale(ModeDay, 30)
	if got := s.DateToOffset(day(2024, time.September, 1)); got != 0 {
		t.Fatalf("range start should map to 0, got %v", got)
	}
	if got := s.DateToOffset(day(2024, time.September, 11)); got != 300 {
		t.Fatalf("expected 300px for 10 days, got %v", got)
	}
}

func TestDateToOffsetWeekMode(t *testing.T) {
	s := scale(ModeWeek, 70)
	// 14 days at 70px per 7-day cell = 140px.
	if got := s.DateToOffset(day(2024, time.September, 15)); got != 140 {
		t.Fatalf("expected 140px, got %v", got)
	}
}

func TestDateToOffsetMonthModeDivisor(t *testing.T) {
	s := scale(ModeMonth, 100)
	// The 30.44 average-month divisor is part of the on-disk numeric
	// contract: 61 days must map to exactly 61*100/30.44 px.
	want := 61.0 * 100 / 30.44
	got := s.DateToOffset(day(2024, time.November, 1))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOffsetToDateInverse(t *testing.T) {
	s := scale(ModeDay, 30)
	for _, d := range []time.Time{
		day(2024, time.September, 1),
		day(2024, time.October, 7),
		day(2024, time.December, 31),
	} {
		back := s.OffsetToDate(s.DateToOffset(d))
		if !back.Equal(d) {
			t.Fatalf("inverse mapping drifted: %s -> %s", d, back)
		}
	}
}

func TestSnapUnits(t *testing.T) {
	s := scale(ModeDay, 30)
	// round(37/30) = 1: a 37px drag snaps to exactly one day.
	if got := s.SnapUnits(37); got != 1 {
		t.Fatalf("expected snap to 1 unit, got %d", got)
	}
	if got := s.SnapUnits(-37); got != -1 {
		t.Fatalf("expected snap to -1 unit, got %d", got)
	}
	if got := s.SnapUnits(14); got != 0 {
		t.Fatalf("expected sub-half drag to snap to 0, got %d", got)
	}
	if got := s.SnapUnits(45); got != 2 {
		t.Fatalf("expected round-half-up to 2, got %d", got)
	}
}

func TestShiftByUnits(t *testing.T) {
	d := day(2024, time.September, 5)
	if got := scale(ModeDay, 30).ShiftByUnits(d, 3); !got.Equal(day(2024, time.September, 8)) {
		t.Fatalf("day shift: got %s", got)
	}
	if got := scale(ModeWeek, 70).ShiftByUnits(d, 2); !got.Equal(day(2024, time.September, 19)) {
		t.Fatalf("week shift: got %s", got)
	}
	if got := scale(ModeMonth, 100).ShiftByUnits(d, 1); !got.Equal(day(2024, time.October, 5)) {
		t.Fatalf("month shift: got %s", got)
	}
}

func TestBarSpanInclusive(t *testing.T) {
	s := scale(ModeDay, 30)
	x, w := s.BarSpan(day(2024, time.September, 1), day(2024, time.September, 5))
	if x != 0 {
		t.Fatalf("expected bar at 0, got %v", x)
	}
	if w != 150 {
		t.Fatalf("expected 5 inclusive days = 150px, got %v", w)
	}
	// A degenerate range still renders one day wide.
	_, w = s.BarSpan(day(2024, time.September, 5), day(2024, time.September, 5))
	if w != 30 {
		t.Fatalf("expected single day bar 30px, got %v", w)
	}
}

func TestCellsDayMode(t *testing.T) {
	s := Scale{Start: day(2024, time.September, 1), End: day(2024, time.September, 8), Mode: ModeDay, CellWidth: 30}
	cells := s.Cells()
	if len(cells) != 8 {
		t.Fatalf("expected 8 day cells, got %d", len(cells))
	}
	if !cells[6].Weekend { // 2024-09-07 is a Saturday
		t.Fatalf("expected Saturday cell flagged as weekend")
	}
	if cells[0].Label != "1" {
		t.Fatalf("unexpected day label %q", cells[0].Label)
	}
}

func TestCellsWeekModeLabels(t *testing.T) {
	s := Scale{Start: day(2024, time.September, 2), End: day(2024, time.September, 16), Mode: ModeWeek, CellWidth: 70}
	cells := s.Cells()
	if len(cells) != 3 {
		t.Fatalf("expected 3 week cells, got %d", len(cells))
	}
	if cells[0].Label != "W36" {
		t.Fatalf("expected ISO week label W36, got %q", cells[0].Label)
	}
}

func TestHeadersGroupCells(t *testing.T) {
	s := Scale{Start: day(2024, time.September, 25), End: day(2024, time.October, 5), Mode: ModeDay, CellWidth: 30}
	headers := s.Headers()
	if len(headers) != 2 {
		t.Fatalf("expected Sep and Oct headers, got %d", len(headers))
	}
	if headers[0].Label != "Sep 2024" || headers[0].Cells != 6 {
		t.Fatalf("unexpected first header: %+v", headers[0])
	}
	if headers[1].Label != "Oct 2024" || headers[1].Cells != 5 {
		t.Fatalf("unexpected second header: %+v", headers[1])
	}
}

func TestHeadersMonthModeYears(t *testing.T) {
	s := Scale{Start: day(2024, time.November, 1), End: day(2025, time.February, 1), Mode: ModeMonth, CellWidth: 100}
	headers := s.Headers()
	if len(headers) != 2 {
		t.Fatalf("expected 2 year headers, got %d", len(headers))
	}
	if headers[0].Label != "2024" || headers[0].Cells != 2 {
		t.Fatalf("unexpected 2024 header: %+v", headers[0])
	}
	if headers[1].Label != "2025" || headers[1].Cells != 2 {
		t.Fatalf("unexpected 2025 header: %+v", headers[1])
	}
}

func TestFitCellWidth(t *testing.T) {
	if got := FitCellWidth(900, 30, 10); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := FitCellWidth(100, 30, 10); got != 10 {
		t.Fatalf("expected min width 10, got %d", got)
	}
	if got := FitCellWidth(100, 0, 10); got != 10 {
		t.Fatalf("expected min for empty range, got %d", got)
	}
}
