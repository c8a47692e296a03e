package app

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/task"
)

func TestReportRollsUpCategories(t *testing.T) {
	a := planned("Bridge", "a", "excavate", "", "2024-09-01", "2024-09-05")
	a.Category = "Substructure"
	a.Cost = 100
	a.Progress = 100
	a.Status = task.StatusCompleted
	b := planned("Bridge", "b", "pour", "", "2024-09-06", "2024-09-10")
	b.Category = "Substructure"
	b.Cost = 300
	b.Progress = 50
	b.Status = task.StatusInProgress
	mp := newMemoryPersistence(a, b)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	ref := time.Date(2024, time.September, 8, 12, 0, 0, 0, time.UTC)
	got, err := svc.Report(ctx, "Bridge", ref)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if got.Basis != curve.BasisCost {
		t.Fatalf("expected cost basis, got %s", got.Basis)
	}
	if got.Total.TotalCost != 400 {
		t.Fatalf("expected total cost 400, got %v", got.Total.TotalCost)
	}
	if len(got.Sections) != 1 || got.Sections[0].Category != "Substructure" {
		t.Fatalf("unexpected sections %+v", got.Sections)
	}
	// Simple mean for a category section.
	if got.Sections[0].Summary.AvgProgress != 75 {
		t.Fatalf("expected category mean 75, got %v", got.Sections[0].Summary.AvgProgress)
	}
	if len(got.Curve.Plan) == 0 {
		t.Fatal("expected plan curve")
	}
}

func TestReportFlagsLateTasks(t *testing.T) {
	a := planned("Bridge", "a", "excavate", "", "2024-09-01", "2024-09-05")
	a.Status = task.StatusInProgress
	b := planned("Bridge", "b", "pour", "", "2024-09-12", "2024-09-15")
	mp := newMemoryPersistence(a, b)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	ref := time.Date(2024, time.September, 8, 0, 0, 0, 0, time.UTC)
	got, err := svc.Report(ctx, "Bridge", ref)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(got.Late) != 1 || got.Late[0].ID != "a" {
		t.Fatalf("expected task a late, got %+v", got.Late)
	}
	if len(got.Upcoming) != 1 || got.Upcoming[0].ID != "b" {
		t.Fatalf("expected task b upcoming, got %+v", got.Upcoming)
	}
}

func TestNormalizeRepairsRecords(t *testing.T) {
	a := planned("Bridge", "a", "excavate", "", "2024-09-01", "2024-09-05")
	a.PlanDuration = 99
	a.Progress = 120
	a.AddPredecessor("ghost")
	a.ParentID = "missing"
	mp := newMemoryPersistence(a)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	result, err := svc.Normalize(ctx, "Bridge")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Scanned != 1 || result.Repaired != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	got, _ := mp.Get(ctx, "Bridge", "a")
	if got.PlanDuration != 5 {
		t.Fatalf("expected duration 5, got %d", got.PlanDuration)
	}
	if got.Progress != 100 {
		t.Fatalf("expected clamped progress, got %v", got.Progress)
	}
	if got.HasPredecessor("ghost") || got.ParentID != "" {
		t.Fatalf("expected dangling references dropped, got %+v", got)
	}
}

func TestNormalizeRespacesOrderCollisions(t *testing.T) {
	a := planned("Bridge", "a", "first", "", "", "")
	a.Order = 10
	b := planned("Bridge", "b", "second", "", "", "")
	b.Order = 10
	mp := newMemoryPersistence(a, b)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	result, err := svc.Normalize(ctx, "Bridge")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Reordered != 2 {
		t.Fatalf("expected both siblings respaced, got %d", result.Reordered)
	}
	tasks := mp.List(ctx, "Bridge")
	if tasks[0].Order == tasks[1].Order {
		t.Fatal("expected distinct orders after respace")
	}
}
