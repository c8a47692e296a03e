package drag

import (
	"testing"
	"time"

	"tableflip.dev/gantt/pkg/timeline"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayScale() timeline.Scale {
	return timeline.Scale{
		Start:     day(2024, time.September, 1),
		End:       day(2024, time.December, 31),
		Mode:      timeline.ModeDay,
		CellWidth: 30,
	}
}

func TestMoveSnapsToWholeDays(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 100)

	s = s.Tick(137) // +37px with 30px cells snaps to exactly one day
	if !s.Preview.Start.Equal(day(2024, time.September, 3)) {
		t.Fatalf("expected start +1 day, got %s", s.Preview.Start)
	}
	if !s.Preview.End.Equal(day(2024, time.September, 7)) {
		t.Fatalf("expected end +1 day, got %s", s.Preview.End)
	}
	if s.Preview.Units != 1 {
		t.Fatalf("expected 1 unit, got %d", s.Preview.Units)
	}
}

func TestMovePreservesDuration(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(-95) // about -3 days
	got := s.Preview.End.Sub(s.Preview.Start)
	want := day(2024, time.September, 6).Sub(day(2024, time.September, 2))
	if got != want {
		t.Fatalf("duration changed during move: %v vs %v", got, want)
	}
}

func TestTicksDeriveFromOrigin(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(300)
	s = s.Tick(300)
	s = s.Tick(30)
	if !s.Preview.Start.Equal(day(2024, time.September, 3)) {
		t.Fatalf("repeated ticks must not accumulate, got %s", s.Preview.Start)
	}
}

func TestResizeStartClampsToOneDay(t *testing.T) {
	s := Begin(dayScale(), KindResizeStart, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 4), 0)
	s = s.Tick(300) // tries to drag the start 10 days past the end
	if !s.Preview.Start.Equal(day(2024, time.September, 4)) {
		t.Fatalf("expected start clamped to end, got %s", s.Preview.Start)
	}
	if !s.Preview.End.Equal(day(2024, time.September, 4)) {
		t.Fatalf("resize-start must not move the end, got %s", s.Preview.End)
	}
}

func TestResizeEndClampsToOneDay(t *testing.T) {
	s := Begin(dayScale(), KindResizeEnd, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 4), 0)
	s = s.Tick(-300)
	if !s.Preview.End.Equal(day(2024, time.September, 2)) {
		t.Fatalf("expected end clamped to start, got %s", s.Preview.End)
	}
}

func TestResizeEndGrows(t *testing.T) {
	s := Begin(dayScale(), KindResizeEnd, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 4), 0)
	s = s.Tick(61)
	if !s.Preview.End.Equal(day(2024, time.September, 6)) {
		t.Fatalf("expected end +2 days, got %s", s.Preview.End)
	}
	if !s.Preview.Start.Equal(day(2024, time.September, 2)) {
		t.Fatalf("resize-end must not move the start, got %s", s.Preview.Start)
	}
}

func TestWeekModeSnapsWholeWeeks(t *testing.T) {
	scale := dayScale()
	scale.Mode = timeline.ModeWeek
	scale.CellWidth = 70
	s := Begin(scale, KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(80) // just over one cell: one whole week
	if !s.Preview.Start.Equal(day(2024, time.September, 9)) {
		t.Fatalf("expected +1 week, got %s", s.Preview.Start)
	}
}

func TestMonthModeSnapsWholeMonths(t *testing.T) {
	scale := dayScale()
	scale.Mode = timeline.ModeMonth
	scale.CellWidth = 100
	s := Begin(scale, KindMove, BarPlan, "t1",
		day(2024, time.September, 5), day(2024, time.September, 20), 0)
	s = s.Tick(110)
	if !s.Preview.Start.Equal(day(2024, time.October, 5)) {
		t.Fatalf("expected +1 calendar month, got %s", s.Preview.Start)
	}
}

func TestReleaseCommitsFinalDates(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarActual, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(65)
	commit, ok := s.Release()
	if !ok {
		t.Fatalf("expected a commit")
	}
	if commit.TaskID != "t1" || commit.Bar != BarActual {
		t.Fatalf("commit misrouted: %+v", commit)
	}
	if !commit.Start.Equal(day(2024, time.September, 4)) || !commit.End.Equal(day(2024, time.September, 8)) {
		t.Fatalf("unexpected commit dates: %s .. %s", commit.Start, commit.End)
	}
}

func TestReleaseWithoutMovementIsNoop(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(10) // under half a cell: snaps back to zero
	if _, ok := s.Release(); ok {
		t.Fatalf("expected no commit for a zero-unit drag")
	}
}

func TestCancelDiscardsPreview(t *testing.T) {
	s := Begin(dayScale(), KindMove, BarPlan, "t1",
		day(2024, time.September, 2), day(2024, time.September, 6), 0)
	s = s.Tick(300)
	s = s.Cancel()
	if s.Active {
		t.Fatalf("expected idle state after cancel")
	}
	if _, ok := s.Release(); ok {
		t.Fatalf("cancelled gesture must not commit")
	}
}

func TestInactiveTickIsNoop(t *testing.T) {
	var s State
	s = s.Tick(500)
	if s.Active || !s.Preview.Start.IsZero() {
		t.Fatalf("inactive state should ignore ticks")
	}
}
