package rowindex

import (
	"testing"

	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tree"
)

func mk(id, parent, cat, sub string, order float64) *task.Task {
	return &task.Task{ID: id, ParentID: parent, Category: cat, Subcategory: sub, Order: order}
}

func fixture() *tree.Index {
	g := mk("g", "", "Structure", "Foundations", 10)
	g.Type = task.TypeGroup
	return tree.Build([]*task.Task{
		g,
		mk("a", "g", "Structure", "Foundations", 10),
		mk("b", "g", "Structure", "Foundations", 20),
		mk("t2", "", "Structure", "Frame", 20),
		mk("t3", "", "Finishes", "", 30),
	})
}

func kinds(rows []Row) []Kind {
	out := make([]Kind, len(rows))
	for i, r := range rows {
		out[i] = r.Kind
	}
	return out
}

func TestBuildWalkOrder(t *testing.T) {
	rows, byTask := Build(fixture(), Collapse{})

	want := []Kind{
		KindCategory,    // Structure
		KindSubcategory, // Foundations
		KindTask,        // g
		KindTask,        // a
		KindTask,        // b
		KindSubcategory, // Frame
		KindTask,        // t2
		KindCategory,    // Finishes
		KindTask,        // t3
	}
	got := kinds(rows)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if byTask["g"] != 2 || byTask["a"] != 3 || byTask["t3"] != 8 {
		t.Fatalf("unexpected task indices: %v", byTask)
	}
}

func TestDepthIncreasesThroughHeadings(t *testing.T) {
	rows, _ := Build(fixture(), Collapse{})
	for _, r := range rows {
		switch {
		case r.Kind == KindCategory && r.Depth != 0:
			t.Fatalf("category row at depth %d", r.Depth)
		case r.Kind == KindSubcategory && r.Depth != 1:
			t.Fatalf("subcategory row at depth %d", r.Depth)
		case r.Kind == KindTask && r.Task.ID == "a" && r.Depth != 3:
			t.Fatalf("child task a at depth %d, expected 3", r.Depth)
		}
	}
}

func TestCollapsedTaskKeepsOneRow(t *testing.T) {
	c := Collapse{}
	c.Toggle("g")
	rows, byTask := Build(fixture(), c)

	if _, ok := byTask["a"]; ok {
		t.Fatalf("collapsed child a should not be indexed")
	}
	if _, ok := byTask["g"]; !ok {
		t.Fatalf("collapsed node itself must keep its row")
	}
	// g row present, children a and b gone: 9 - 2 rows.
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
}

func TestCollapsedCategorySkipsSubtree(t *testing.T) {
	c := Collapse{}
	c.Toggle("c:Structure")
	rows, byTask := Build(fixture(), c)

	want := []Kind{KindCategory, KindCategory, KindTask}
	got := kinds(rows)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	if _, ok := byTask["t2"]; ok {
		t.Fatalf("t2 should be hidden under collapsed Structure")
	}
	if _, ok := byTask["t3"]; !ok {
		t.Fatalf("t3 should stay visible")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	c := Collapse{}
	c.Toggle("g")
	if !c["g"] {
		t.Fatalf("expected g collapsed")
	}
	c.Toggle("g")
	if c["g"] {
		t.Fatalf("expected g expanded again")
	}
}

func TestNoHeadingRowsForEmptyNames(t *testing.T) {
	idx := tree.Build([]*task.Task{mk("solo", "", "", "", 10)})
	rows, _ := Build(idx, Collapse{})
	if len(rows) != 1 || rows[0].Kind != KindTask || rows[0].Depth != 0 {
		t.Fatalf("uncategorized task should be a single top-level row, got %+v", rows)
	}
}

func TestSliceClamps(t *testing.T) {
	rows, _ := Build(fixture(), Collapse{})
	window := Slice(rows, -3, 2)
	if len(window) != 3 {
		t.Fatalf("expected clamped window of 3, got %d", len(window))
	}
	window = Slice(rows, 7, 99)
	if len(window) != 2 {
		t.Fatalf("expected tail window of 2, got %d", len(window))
	}
	if Slice(rows, 5, 2) != nil {
		t.Fatalf("inverted window should be nil")
	}
}
