package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/task"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestPersistenceWatchEmitsProjectChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	tk := task.New("Bridge", "Pour footings")
	if err := p.Store(tk); err != nil {
		t.Fatalf("store task: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventProjectsInvalidated {
				return
			}
			if evt.Type == EventProjectChanged {
				if evt.Project != "Bridge" {
					t.Fatalf("expected project 'Bridge', got %q", evt.Project)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for project change event")
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	tk := task.New("Bridge", "Pour footings")
	tk.PlanStart, _ = task.ParseDate("2024-09-01")
	tk.PlanEnd, _ = task.ParseDate("2024-09-05")
	tk.Cost = 1000
	if err := p.Store(tk); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := p.Get(ctx, "Bridge", tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Pour footings" || got.Cost != 1000 {
		t.Fatalf("expected stored task back, got %+v", got)
	}
	if got.PlanStart.String() != "2024-09-01" {
		t.Fatalf("expected plan start 2024-09-01, got %s", got.PlanStart)
	}

	list := p.List(ctx, "Bridge")
	if len(list) != 1 {
		t.Fatalf("expected 1 task in Bridge, got %d", len(list))
	}

	if err := p.Delete(tk); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Get(ctx, "Bridge", tk.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPersistenceListSortsByOrder(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	a := task.New("Bridge", "second")
	a.Order = 200000
	b := task.New("Bridge", "first")
	b.Order = 100000
	for _, tk := range []*task.Task{a, b} {
		if err := p.Store(tk); err != nil {
			t.Fatalf("store: %v", err)
		}
	}

	list := p.List(ctx, "Bridge")
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	if list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("expected order-sorted list, got %q then %q", list[0].Name, list[1].Name)
	}
}

func TestPersistenceProjectCatalog(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	if err := p.EnsureProject("Bridge"); err != nil {
		t.Fatalf("ensure project: %v", err)
	}
	start, _ := task.ParseDate("2024-09-01")
	end, _ := task.ParseDate("2024-12-31")
	if err := p.SetProjectRange("Bridge", start, end); err != nil {
		t.Fatalf("set range: %v", err)
	}

	metas := p.Projects(ctx, "")
	if len(metas) != 1 {
		t.Fatalf("expected 1 project, got %d", len(metas))
	}
	if metas[0].Name != "Bridge" || metas[0].Start.String() != "2024-09-01" {
		t.Fatalf("unexpected meta %+v", metas[0])
	}

	if metas := p.Projects(ctx, "Tun"); len(metas) != 0 {
		t.Fatalf("expected no match for prefix, got %d", len(metas))
	}
}

func TestPersistenceIndexFilesStayOutOfTaskWalks(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	tk := task.New("Bridge", "Pour footings")
	if err := p.Store(tk); err != nil {
		t.Fatalf("store: %v", err)
	}
	// Storing a task also writes the project catalog file next to the
	// task keyspace. Saving prefs adds a second dot-file.
	if err := p.SavePrefs("Bridge", project.Prefs{ViewMode: "week"}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	if all := p.ListAll(ctx); len(all) != 1 || all[0].Name != "Pour footings" {
		t.Fatalf("expected only the stored task, got %+v", all)
	}
	byProject := p.MapAll(ctx)
	if len(byProject) != 1 || len(byProject["Bridge"]) != 1 {
		t.Fatalf("expected single Bridge bucket, got %+v", byProject)
	}
	metas := p.Projects(ctx, "")
	if len(metas) != 1 || metas[0].Name != "Bridge" {
		t.Fatalf("expected 1 project, got %+v", metas)
	}
}

func TestPersistencePrefsRoundTrip(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ref, _ := task.ParseDate("2024-10-01")
	in := project.Prefs{
		ViewMode:      "month",
		Collapsed:     []string{"c:Structure"},
		ReferenceDate: ref,
	}
	if err := p.SavePrefs("Bridge", in); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	got, err := p.LoadPrefs("Bridge")
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if got.ViewMode != "month" || len(got.Collapsed) != 1 || got.Collapsed[0] != "c:Structure" {
		t.Fatalf("unexpected prefs %+v", got)
	}
	if got.ReferenceDate.String() != "2024-10-01" {
		t.Fatalf("expected reference date back, got %s", got.ReferenceDate)
	}

	other, err := p.LoadPrefs("Tunnel")
	if err != nil {
		t.Fatalf("load prefs for other project: %v", err)
	}
	if other.ViewMode != "" {
		t.Fatalf("expected zero prefs for other project, got %+v", other)
	}
}
