// Package timeline maps calendar dates to horizontal pixel offsets under the
// day, week, and month zoom levels, and back again for drag input.
package timeline

import (
	"fmt"
	"math"
	"time"

	"tableflip.dev/gantt/pkg/timeutil"
)

// ViewMode is the timeline zoom granularity.
type ViewMode string

const (
	ModeDay   ViewMode = "day"
	ModeWeek  ViewMode = "week"
	ModeMonth ViewMode = "month"
)

// avgMonthDays is the average Gregorian month length. Month mode scales by
// this exact divisor; existing exports depend on the resulting offsets, so
// it must not be "fixed" to a calendar-aware value.
const avgMonthDays = 30.44

// Scale converts between dates and pixels for one time range, mode, and
// cell width.
type Scale struct {
	Start     time.Time
	End       time.Time
	Mode      ViewMode
	CellWidth int
}

// unitDays is the number of days one cell spans for offset math.
func (s Scale) unitDays() float64 {
	switch s.Mode {
	case ModeWeek:
		return 7
	case ModeMonth:
		return avgMonthDays
	default:
		return 1
	}
}

// DateToOffset returns the horizontal pixel offset of d from the range
// start.
func (s Scale) DateToOffset(d time.Time) float64 {
	days := float64(timeutil.DaysBetween(s.Start, d))
	return days * float64(s.CellWidth) / s.unitDays()
}

// OffsetToDate inverts DateToOffset to the nearest calendar day.
func (s Scale) OffsetToDate(px float64) time.Time {
	days := int(math.Round(px * s.unitDays() / float64(s.CellWidth)))
	return timeutil.AddDays(s.Start, days)
}

// SnapUnits converts a pixel delta to whole view-mode units, rounding to
// the nearest cell. Snapping precision intentionally degrades as the zoom
// level coarsens: a day at day zoom, a week at week zoom, a month at month
// zoom.
func (s Scale) SnapUnits(deltaPx float64) int {
	if s.CellWidth <= 0 {
		return 0
	}
	return int(math.Round(deltaPx / float64(s.CellWidth)))
}

// ShiftByUnits moves d by n view-mode units. Day and week modes shift by
// whole days; month mode shifts by whole calendar months so a bar dragged
// one cell lands on the same day-of-month.
func (s Scale) ShiftByUnits(d time.Time, n int) time.Time {
	switch s.Mode {
	case ModeWeek:
		return timeutil.AddDays(d, n*7)
	case ModeMonth:
		return timeutil.Midnight(d).AddDate(0, n, 0)
	default:
		return timeutil.AddDays(d, n)
	}
}

// BarSpan returns the offset and pixel width of the inclusive date range
// [start, end].
func (s Scale) BarSpan(start, end time.Time) (x, w float64) {
	x = s.DateToOffset(start)
	days := float64(timeutil.DaysBetween(start, end) + 1)
	if days < 1 {
		days = 1
	}
	w = days * float64(s.CellWidth) / s.unitDays()
	return x, w
}

// Width returns the total pixel width of the scale's range.
func (s Scale) Width() float64 {
	_, w := s.BarSpan(s.Start, s.End)
	return w
}

// Cell is one bottom-level timeline column.
type Cell struct {
	Label   string
	Date    time.Time
	Weekend bool
	Today   bool
}

// Header is one top-level group spanning Cells columns: months above days
// or weeks, years above months.
type Header struct {
	Label string
	Start time.Time
	Cells int
}

// Cells generates the bottom-level column sequence for the range.
func (s Scale) Cells() []Cell {
	switch s.Mode {
	case ModeWeek:
		weeks := timeutil.WeeksIn(s.Start, s.End)
		out := make([]Cell, 0, len(weeks))
		for _, w := range weeks {
			out = append(out, Cell{
				Label: fmt.Sprintf("W%d", timeutil.ISOWeek(w)),
				Date:  w,
				Today: timeutil.SameDay(timeutil.WeekStart(time.Now()), w),
			})
		}
		return out
	case ModeMonth:
		months := timeutil.MonthsIn(s.Start, s.End)
		out := make([]Cell, 0, len(months))
		for _, m := range months {
			out = append(out, Cell{
				Label: m.Format("Jan"),
				Date:  m,
				Today: timeutil.SameDay(timeutil.MonthStart(time.Now()), m),
			})
		}
		return out
	default:
		days := timeutil.DaysIn(s.Start, s.End)
		out := make([]Cell, 0, len(days))
		for _, d := range days {
			out = append(out, Cell{
				Label:   fmt.Sprintf("%d", d.Day()),
				Date:    d,
				Weekend: timeutil.IsWeekend(d),
				Today:   timeutil.IsToday(d),
			})
		}
		return out
	}
}

// Headers generates the top-level groups above the cells: months for day
// and week modes, years for month mode.
func (s Scale) Headers() []Header {
	cells := s.Cells()
	if len(cells) == 0 {
		return nil
	}
	var out []Header
	if s.Mode == ModeMonth {
		for _, c := range cells {
			label := timeutil.FormatYear(c.Date)
			if len(out) > 0 && out[len(out)-1].Label == label {
				out[len(out)-1].Cells++
				continue
			}
			out = append(out, Header{Label: label, Start: timeutil.YearStart(c.Date), Cells: 1})
		}
		return out
	}
	for _, c := range cells {
		label := timeutil.FormatMonth(c.Date)
		if len(out) > 0 && out[len(out)-1].Label == label {
			out[len(out)-1].Cells++
			continue
		}
		out = append(out, Header{Label: label, Start: timeutil.MonthStart(c.Date), Cells: 1})
	}
	return out
}

// FitCellWidth sizes cells to fill the available width, never dropping
// below min.
func FitCellWidth(available, count, min int) int {
	if count <= 0 {
		return min
	}
	w := available / count
	if w < min {
		return min
	}
	return w
}
