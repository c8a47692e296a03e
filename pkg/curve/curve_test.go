package curve

import (
	"math"
	"testing"
	"time"

	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tree"
)

func leaf(id string, cost float64, progress int, start, end task.Date) *task.Task {
	return &task.Task{ID: id, Cost: cost, Progress: progress, PlanStart: start, PlanEnd: end, Type: task.TypeTask}
}

func d(y int, m time.Month, dd int) task.Date {
	return task.NewDate(y, m, dd)
}

func TestWeightBasisSelection(t *testing.T) {
	costed := []*task.Task{
		leaf("a", 0, 0, d(2024, 9, 1), d(2024, 9, 2)),
		leaf("b", 100, 0, d(2024, 9, 1), d(2024, 9, 2)),
	}
	if got := WeightBasis(costed); got != BasisCost {
		t.Fatalf("expected cost basis when any leaf has cost, got %s", got)
	}
	free := []*task.Task{
		leaf("a", 0, 0, d(2024, 9, 1), d(2024, 9, 2)),
	}
	if got := WeightBasis(free); got != BasisDuration {
		t.Fatalf("expected duration fallback, got %s", got)
	}
}

func TestLeafWeightsNormalize(t *testing.T) {
	leaves := []*task.Task{
		leaf("a", 100, 0, d(2024, 9, 1), d(2024, 9, 5)),
		leaf("b", 300, 0, d(2024, 9, 1), d(2024, 9, 5)),
	}
	w, basis := LeafWeights(leaves)
	if basis != BasisCost {
		t.Fatalf("expected cost basis, got %s", basis)
	}
	if math.Abs(w["a"]-25) > 1e-9 || math.Abs(w["b"]-75) > 1e-9 {
		t.Fatalf("unexpected weights: %v", w)
	}
	sum := w["a"] + w["b"]
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("weights must sum to 100, got %v", sum)
	}
}

func TestLeafWeightsDurationBasis(t *testing.T) {
	leaves := []*task.Task{
		leaf("a", 0, 0, d(2024, 9, 1), d(2024, 9, 2)),  // 2 days
		leaf("b", 0, 0, d(2024, 9, 1), d(2024, 9, 8)),  // 8 days
		{ID: "broken", Type: task.TypeTask},            // no dates: zero weight
	}
	w, basis := LeafWeights(leaves)
	if basis != BasisDuration {
		t.Fatalf("expected duration basis, got %s", basis)
	}
	if math.Abs(w["a"]-20) > 1e-9 || math.Abs(w["b"]-80) > 1e-9 {
		t.Fatalf("unexpected weights: %v", w)
	}
	if w["broken"] != 0 {
		t.Fatalf("dateless leaf must weigh nothing, got %v", w["broken"])
	}
}

func TestGroupSummaryWeightedProgress(t *testing.T) {
	g := &task.Task{ID: "g", Type: task.TypeGroup}
	l1 := leaf("l1", 100, 50, d(2024, 9, 1), d(2024, 9, 5))
	l1.ParentID = "g"
	l2 := leaf("l2", 300, 100, d(2024, 9, 3), d(2024, 9, 10))
	l2.ParentID = "g"

	idx := tree.Build([]*task.Task{g, l1, l2})
	w, _ := LeafWeights(idx.Leaves())
	s := GroupSummary(idx, "g", w)

	if s.TotalCost != 400 {
		t.Fatalf("expected total cost 400, got %v", s.TotalCost)
	}
	if math.Abs(s.AvgProgress-87.5) > 1e-9 {
		t.Fatalf("expected weighted progress 87.5, got %v", s.AvgProgress)
	}
	if s.Start.String() != "2024-09-01" || s.End.String() != "2024-09-10" {
		t.Fatalf("unexpected date range: %s .. %s", s.Start, s.End)
	}
}

func TestCategorySummarySimpleMean(t *testing.T) {
	leaves := []*task.Task{
		leaf("l1", 100, 50, d(2024, 9, 1), d(2024, 9, 5)),
		leaf("l2", 300, 100, d(2024, 9, 1), d(2024, 9, 5)),
	}
	w, _ := LeafWeights(leaves)
	s := CategorySummary(leaves, w)
	if math.Abs(s.AvgProgress-75) > 1e-9 {
		t.Fatalf("expected simple mean 75, got %v", s.AvgProgress)
	}
}

func TestSCurvePlanMonotoneAndBounded(t *testing.T) {
	idx := tree.Build([]*task.Task{
		leaf("a", 100, 0, d(2024, 9, 1), d(2024, 9, 10)),
		leaf("b", 300, 0, d(2024, 9, 5), d(2024, 9, 20)),
	})
	s := SCurve(idx, d(2024, 9, 1).Time, d(2024, 9, 30).Time, d(2024, 9, 15).Time)

	if len(s.Plan) != 30 {
		t.Fatalf("expected 30 plan days, got %d", len(s.Plan))
	}
	prev := 0.0
	for i, v := range s.Plan {
		if v < prev {
			t.Fatalf("plan series decreased at day %d: %v -> %v", i, prev, v)
		}
		if v < 0 || v > 100 {
			t.Fatalf("plan series out of bounds at day %d: %v", i, v)
		}
		prev = v
	}
	if math.Abs(s.Plan[len(s.Plan)-1]-100) > 1e-6 {
		t.Fatalf("plan series should end at 100, got %v", s.Plan[len(s.Plan)-1])
	}
}

func TestSCurveActualTruncatedAtLastKnownDate(t *testing.T) {
	done := leaf("done", 100, 100, d(2024, 9, 1), d(2024, 9, 5))
	as := d(2024, 9, 1)
	ae := d(2024, 9, 6)
	done.ActualStart = &as
	done.ActualEnd = &ae
	idle := leaf("idle", 100, 0, d(2024, 9, 10), d(2024, 9, 20))

	idx := tree.Build([]*task.Task{done, idle})
	s := SCurve(idx, d(2024, 9, 1).Time, d(2024, 9, 30).Time, d(2024, 9, 25).Time)

	// 2024-09-06 is day index 5; the actual series must stop there.
	if len(s.Actual) != 6 {
		t.Fatalf("expected actual series truncated to 6 days, got %d", len(s.Actual))
	}
	if math.Abs(s.Actual[5]-50) > 1e-9 {
		t.Fatalf("expected 50%% achieved (done task is half the cost), got %v", s.Actual[5])
	}
}

func TestSCurveUnfinishedTaskRunsToReferenceDate(t *testing.T) {
	started := leaf("started", 100, 40, d(2024, 9, 1), d(2024, 9, 20))
	as := d(2024, 9, 1)
	started.ActualStart = &as

	idx := tree.Build([]*task.Task{started})
	ref := d(2024, 9, 10)
	s := SCurve(idx, d(2024, 9, 1).Time, d(2024, 9, 30).Time, ref.Time)

	if len(s.Actual) != 10 {
		t.Fatalf("expected actual series through the reference date, got %d days", len(s.Actual))
	}
	if math.Abs(s.Actual[9]-40) > 1e-9 {
		t.Fatalf("expected 40%% at reference date, got %v", s.Actual[9])
	}
}

func TestSCurveZeroProgressProducesNoActual(t *testing.T) {
	idx := tree.Build([]*task.Task{
		leaf("a", 100, 0, d(2024, 9, 1), d(2024, 9, 5)),
	})
	s := SCurve(idx, d(2024, 9, 1).Time, d(2024, 9, 10).Time, d(2024, 9, 7).Time)
	if len(s.Actual) != 0 {
		t.Fatalf("expected empty actual series, got %d days", len(s.Actual))
	}
}

func TestSCurveSkipsGroupContainers(t *testing.T) {
	g := &task.Task{ID: "g", Type: task.TypeGroup, Cost: 9999, Progress: 90,
		PlanStart: d(2024, 9, 1), PlanEnd: d(2024, 9, 30)}
	l := leaf("l", 100, 100, d(2024, 9, 1), d(2024, 9, 5))
	l.ParentID = "g"
	ae := d(2024, 9, 5)
	as := d(2024, 9, 1)
	l.ActualStart = &as
	l.ActualEnd = &ae

	idx := tree.Build([]*task.Task{g, l})
	s := SCurve(idx, d(2024, 9, 1).Time, d(2024, 9, 10).Time, d(2024, 9, 7).Time)

	// Only the leaf contributes; its 100% completes the whole curve.
	if math.Abs(s.Plan[4]-100) > 1e-6 {
		t.Fatalf("group container leaked into plan series: %v", s.Plan)
	}
}
