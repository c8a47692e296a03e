package ganttview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeline"
	"tableflip.dev/gantt/pkg/tui/events"
	"tableflip.dev/gantt/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func makeTask(id, name, parent string, start, end string) *task.Task {
	t := task.New("Bridge", name)
	t.ID = id
	t.ParentID = parent
	if start != "" {
		t.PlanStart, _ = task.ParseDate(start)
		t.PlanEnd, _ = task.ParseDate(end)
		t.PlanDuration = t.Duration()
	}
	return t
}

func newTestModel(tasks ...*task.Task) *Model {
	m := NewModel("test", theme.Default().Gantt)
	m.SetSize(100, 20)
	m.SetTasks(events.ProjectRef{Name: "Bridge"}, tasks)
	return m
}

func TestViewRendersTaskNamesAndBars(t *testing.T) {
	m := newTestModel(
		makeTask("a", "Excavate", "", "2024-09-02", "2024-09-06"),
		makeTask("b", "Pour footings", "", "2024-09-09", "2024-09-13"),
	)

	out := stripANSIString(m.View())
	if !strings.Contains(out, "Excavate") {
		t.Fatalf("expected Excavate in view, got:\n%s", out)
	}
	if !strings.Contains(out, "Pour footings") {
		t.Fatalf("expected Pour footings in view, got:\n%s", out)
	}
	if !strings.Contains(out, "█") {
		t.Fatalf("expected a plan bar in view, got:\n%s", out)
	}
}

func TestCollapseHidesChildren(t *testing.T) {
	group := makeTask("g", "Foundations", "", "", "")
	group.Type = task.TypeGroup
	child := makeTask("c", "Drive piles", "g", "2024-09-02", "2024-09-06")
	m := newTestModel(group, child)

	out := stripANSIString(m.View())
	if !strings.Contains(out, "Drive piles") {
		t.Fatalf("expected child visible before collapse, got:\n%s", out)
	}

	m.SelectTask("g")
	m.toggleCollapse()
	out = stripANSIString(m.View())
	if strings.Contains(out, "Drive piles") {
		t.Fatalf("expected child hidden after collapse, got:\n%s", out)
	}

	m.toggleCollapse()
	out = stripANSIString(m.View())
	if !strings.Contains(out, "Drive piles") {
		t.Fatalf("expected child visible after expand, got:\n%s", out)
	}
}

func TestCursorSkipsNothingAndClamps(t *testing.T) {
	m := newTestModel(
		makeTask("a", "Excavate", "", "2024-09-02", "2024-09-06"),
		makeTask("b", "Pour", "", "2024-09-09", "2024-09-13"),
	)
	m.Focus()

	m.moveCursor(-5)
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.cursor)
	}
	m.moveCursor(10)
	if m.cursor != len(m.rows)-1 {
		t.Fatalf("expected cursor clamped to last row, got %d", m.cursor)
	}
}

func TestDragPreviewFollowsPointer(t *testing.T) {
	m := newTestModel(makeTask("a", "Excavate", "", "2024-09-02", "2024-09-06"))
	m.SetViewMode(timeline.ModeDay)
	m.SelectTask("a")

	tk := m.SelectedTask()
	x, _ := m.scale.BarSpan(tk.PlanStart.Time, tk.PlanEnd.Time)
	m.drag = drag.Begin(m.scale, drag.KindMove, drag.BarPlan, "a", tk.PlanStart.Time, tk.PlanEnd.Time, x)

	m.drag = m.drag.Tick(x + float64(2*m.scale.CellWidth))
	if m.drag.Preview.Units != 2 {
		t.Fatalf("expected preview shifted 2 units, got %d", m.drag.Preview.Units)
	}

	commit, ok := m.drag.Release()
	if !ok {
		t.Fatalf("expected a commit after a real move")
	}
	want, _ := task.ParseDate("2024-09-04")
	if !commit.Start.Equal(want.Time) {
		t.Fatalf("expected commit start 2024-09-04, got %s", commit.Start.Format("2006-01-02"))
	}
}

// mouseClickAt builds a left click at a timeline pixel, translating to pane
// coordinates.
func mouseClickAt(m *Model, px, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: m.nameWidth() + px - m.hscroll, Y: y, Button: tea.MouseLeft}
}

func TestUpdatingRowIgnoresDragStart(t *testing.T) {
	m := newTestModel(makeTask("a", "Excavate", "", "2024-09-02", "2024-09-06"))
	m.SetUpdating("a", true)

	tk, _ := m.idx.Task("a")
	x, _ := m.scale.BarSpan(tk.PlanStart.Time, tk.PlanEnd.Time)
	click := mouseClickAt(m, int(x), headerHeight)
	m2, _ := m.Update(click)
	if m2.Dragging() {
		t.Fatalf("expected drag blocked while a write is in flight")
	}

	m.SetUpdating("a", false)
	m2, _ = m.Update(click)
	if !m2.Dragging() {
		t.Fatalf("expected drag to start once the write cleared")
	}
}

func TestGroupRowRollsUpLeafDescendants(t *testing.T) {
	group := makeTask("g", "Structure", "", "", "")
	group.Type = task.TypeGroup
	done := makeTask("a", "Columns", "g", "2024-09-02", "2024-09-06")
	done.Progress = 100
	done.Status = task.StatusCompleted
	pending := makeTask("b", "Beams", "g", "2024-09-09", "2024-09-13")
	m := newTestModel(group, done, pending)

	at, ok := m.byTask["g"]
	if !ok {
		t.Fatalf("group row missing")
	}

	// The group has no authored dates or progress; everything it shows
	// must come from its leaves.
	label := m.rowLabel(m.rows[at])
	if !strings.Contains(label, "50%") {
		t.Fatalf("expected weighted leaf progress 50%% on the group row, got %q", label)
	}

	lane := stripANSIString(m.paintTimeline(m.rows[at]))
	if !strings.Contains(lane, glyph.GroupBar) {
		t.Fatalf("expected group bar spanning the dated leaves, got %q", lane)
	}
	if !strings.Contains(lane, glyph.GroupCapL) || !strings.Contains(lane, glyph.GroupCapR) {
		t.Fatalf("expected group caps at the leaf span ends, got %q", lane)
	}

	// The span covers both leaves: cap positions match the first leaf's
	// start and the last leaf's end.
	capL, capR := -1, -1
	for i, r := range []rune(lane) {
		switch string(r) {
		case glyph.GroupCapL:
			capL = i
		case glyph.GroupCapR:
			capR = i
		}
	}
	wantL := int(m.scale.DateToOffset(done.PlanStart.Time))
	wantR := int(m.scale.DateToOffset(pending.PlanEnd.Time))
	if capL != wantL || capR != wantR {
		t.Fatalf("expected caps at %d and %d, got %d and %d", wantL, wantR, capL, capR)
	}
}

func TestCategoryTintKeepsBarGlyphs(t *testing.T) {
	a := makeTask("a", "Excavate", "", "2024-09-02", "2024-09-06")
	a.Category = "Substructure"
	b := makeTask("b", "Roof", "", "2024-09-09", "2024-09-13")
	b.Category = "Superstructure"
	m := newTestModel(a, b)

	if len(m.catColor) != 2 {
		t.Fatalf("expected a color per category, got %d", len(m.catColor))
	}
	if m.catColor["Substructure"] == m.catColor["Superstructure"] {
		t.Fatalf("expected distinct category colors")
	}
	out := stripANSIString(m.View())
	if strings.Count(out, glyph.PlanBar) < 2 {
		t.Fatalf("expected tinted plan bars for both rows, got:\n%s", out)
	}
}
