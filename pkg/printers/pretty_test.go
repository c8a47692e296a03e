package printers

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tree"
)

// captureOutput collects everything a printer writes, with color codes off.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout, oldColorOut, oldNoColor := os.Stdout, color.Output, color.NoColor
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	color.Output = w
	color.NoColor = true
	defer func() {
		os.Stdout = oldStdout
		color.Output = oldColorOut
		color.NoColor = oldNoColor
	}()

	fn()
	_ = w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func day(s string) time.Time {
	d, _ := task.ParseDate(s)
	return d.Time
}

func TestCurvePlotsOneColumnPerDay(t *testing.T) {
	s := curve.Series{Start: day("2024-09-01")}
	for i := 0; i < 10; i++ {
		s.Days = append(s.Days, day("2024-09-01").AddDate(0, 0, i))
		s.Plan = append(s.Plan, float64((i+1)*10))
		if i < 5 {
			s.Actual = append(s.Actual, float64((i+1)*8))
		}
	}

	pp := &PrettyPrint{}
	out := captureOutput(t, func() { pp.Curve(s) })

	if !strings.Contains(out, strings.Repeat("▔", len(s.Days))) {
		t.Fatalf("expected a baseline one cell per day, got:\n%s", out)
	}
	if !strings.Contains(out, "2024-09-01") || !strings.Contains(out, "2024-09-10") {
		t.Fatalf("expected axis labels for first and last day, got:\n%s", out)
	}
	if !strings.Contains(out, "plan 100.0%") || !strings.Contains(out, "actual 40.0%") {
		t.Fatalf("expected final plan/actual readout, got:\n%s", out)
	}
}

func TestCurveEmptySeries(t *testing.T) {
	pp := &PrettyPrint{}
	out := captureOutput(t, func() { pp.Curve(curve.Series{}) })
	if !strings.Contains(out, "no dated tasks") {
		t.Fatalf("expected empty-series notice, got %q", out)
	}
}

func TestScheduleGroupRowShowsLeafRollUp(t *testing.T) {
	group := task.New("Bridge", "Structure")
	group.ID = "g"
	group.Type = task.TypeGroup

	first := task.New("Bridge", "Columns")
	first.ID = "a"
	first.ParentID = "g"
	first.PlanStart, _ = task.ParseDate("2024-09-02")
	first.PlanEnd, _ = task.ParseDate("2024-09-06")
	first.Progress = 100
	first.Status = task.StatusCompleted

	second := task.New("Bridge", "Beams")
	second.ID = "b"
	second.ParentID = "g"
	second.PlanStart, _ = task.ParseDate("2024-09-09")
	second.PlanEnd, _ = task.ParseDate("2024-09-13")

	idx := tree.Build([]*task.Task{group, first, second})
	rows, _ := rowindex.Build(idx, nil)

	pp := &PrettyPrint{}
	out := captureOutput(t, func() { pp.Schedule(idx, rows) })

	var groupLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Structure") {
			groupLine = line
			break
		}
	}
	if groupLine == "" {
		t.Fatalf("group row missing from schedule:\n%s", out)
	}
	// The group authored no dates or progress; its row must carry the
	// leaf roll-up instead.
	if !strings.Contains(groupLine, "2024-09-02") || !strings.Contains(groupLine, "2024-09-13") {
		t.Fatalf("expected leaf span on the group row, got %q", groupLine)
	}
	if !strings.Contains(groupLine, "50%") {
		t.Fatalf("expected weighted leaf progress on the group row, got %q", groupLine)
	}
}
