package mcp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
)

type memoryStore struct {
	mu       sync.Mutex
	projects map[string]map[string]*task.Task
	prefs    map[string]project.Prefs
}

func newMemoryStore(tasks ...*task.Task) *memoryStore {
	m := &memoryStore{
		projects: make(map[string]map[string]*task.Task),
		prefs:    make(map[string]project.Prefs),
	}
	for _, t := range tasks {
		if m.projects[t.Project] == nil {
			m.projects[t.Project] = make(map[string]*task.Task)
		}
		m.projects[t.Project][t.ID] = t.Clone()
	}
	return m
}

func (m *memoryStore) MapAll(_ context.Context) map[string][]*task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]*task.Task, len(m.projects))
	for proj, items := range m.projects {
		for _, t := range items {
			out[proj] = append(out[proj], t.Clone())
		}
	}
	return out
}

func (m *memoryStore) ListAll(_ context.Context) []*task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*task.Task
	for _, items := range m.projects {
		for _, t := range items {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (m *memoryStore) List(_ context.Context, proj string) []*task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.projects[proj]
	out := make([]*task.Task, 0, len(items))
	for _, t := range items {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryStore) Get(_ context.Context, proj, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.projects[proj][id]; ok {
		return t.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (m *memoryStore) Store(t *task.Task) error {
	if t == nil || t.Project == "" {
		return errors.New("invalid task")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projects[t.Project] == nil {
		m.projects[t.Project] = make(map[string]*task.Task)
	}
	m.projects[t.Project][t.ID] = t.Clone()
	return nil
}

func (m *memoryStore) Delete(t *task.Task) error {
	if t == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if items := m.projects[t.Project]; items != nil {
		delete(items, t.ID)
	}
	return nil
}

func (m *memoryStore) Projects(_ context.Context, prefix string) []project.Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]project.Meta, 0, len(m.projects))
	for name := range m.projects {
		if prefix == "" || strings.HasPrefix(name, prefix) {
			out = append(out, project.Meta{Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memoryStore) EnsureProject(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projects[name] == nil {
		m.projects[name] = make(map[string]*task.Task)
	}
	return nil
}

func (m *memoryStore) SetProjectRange(string, task.Date, task.Date) error { return nil }

func (m *memoryStore) LoadPrefs(proj string) (project.Prefs, error) {
	return m.prefs[proj], nil
}

func (m *memoryStore) SavePrefs(proj string, p project.Prefs) error {
	m.prefs[proj] = p
	return nil
}

func (m *memoryStore) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func seedTask(proj, id, name string, start, end string, cost float64, progress int) *task.Task {
	t := task.New(proj, name)
	t.ID = id
	t.Cost = cost
	t.Progress = progress
	if start != "" {
		t.PlanStart, _ = task.ParseDate(start)
		t.PlanEnd, _ = task.ParseDate(end)
		t.PlanDuration = t.Duration()
	}
	return t
}

func TestServiceCreateTaskParsesDates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	dto, err := svc.CreateTask(ctx, CreateTaskOptions{
		Project:   "Bridge",
		Name:      "Pour footings",
		PlanStart: "2024-09-01",
		PlanEnd:   "2024-09-05",
		Cost:      1200,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if dto.ID == "" {
		t.Fatalf("expected generated id")
	}
	if dto.PlanStart != "2024-09-01" || dto.PlanEnd != "2024-09-05" {
		t.Fatalf("expected plan 2024-09-01 to 2024-09-05, got %s to %s", dto.PlanStart, dto.PlanEnd)
	}
	if dto.DurationDays != 5 {
		t.Fatalf("expected duration 5, got %d", dto.DurationDays)
	}
	if dto.Status != string(task.StatusNotStarted) {
		t.Fatalf("expected not-started, got %s", dto.Status)
	}
}

func TestServiceCreateTaskRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.CreateTask(ctx, CreateTaskOptions{
		Project:   "Bridge",
		Name:      "Pour footings",
		PlanStart: "next tuesday",
	})
	if err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestServiceRescheduleCascade(t *testing.T) {
	ctx := context.Background()
	a := seedTask("Bridge", "a", "Excavate", "2024-09-01", "2024-09-05", 0, 0)
	b := seedTask("Bridge", "b", "Pour", "2024-09-06", "2024-09-10", 0, 0)
	b.AddPredecessor("a")
	svc := NewService(newMemoryStore(a, b))

	dto, err := svc.RescheduleTask(ctx, "Bridge", "a", "2024-09-01", "2024-09-08", false, true)
	if err != nil {
		t.Fatalf("RescheduleTask failed: %v", err)
	}
	if dto.PlanEnd != "2024-09-08" {
		t.Fatalf("expected end 2024-09-08, got %s", dto.PlanEnd)
	}

	succ, err := svc.TaskByID(ctx, "Bridge", "b")
	if err != nil {
		t.Fatalf("TaskByID failed: %v", err)
	}
	if succ.PlanStart != "2024-09-09" || succ.PlanEnd != "2024-09-13" {
		t.Fatalf("expected successor shifted to 2024-09-09..2024-09-13, got %s..%s", succ.PlanStart, succ.PlanEnd)
	}
}

func TestServiceRescheduleRejectsReversedDates(t *testing.T) {
	ctx := context.Background()
	a := seedTask("Bridge", "a", "Excavate", "2024-09-01", "2024-09-05", 0, 0)
	svc := NewService(newMemoryStore(a))

	if _, err := svc.RescheduleTask(ctx, "Bridge", "a", "2024-09-10", "2024-09-05", false, false); err == nil {
		t.Fatalf("expected error for reversed dates")
	}
}

func TestServiceLinkRejectsCycle(t *testing.T) {
	ctx := context.Background()
	a := seedTask("Bridge", "a", "Excavate", "2024-09-01", "2024-09-05", 0, 0)
	b := seedTask("Bridge", "b", "Pour", "2024-09-06", "2024-09-10", 0, 0)
	b.AddPredecessor("a")
	svc := NewService(newMemoryStore(a, b))

	if _, err := svc.LinkTasks(ctx, "Bridge", "b", "a"); err == nil {
		t.Fatalf("expected cycle rejection")
	}
}

func TestServiceProjectSummaryWeightsByCost(t *testing.T) {
	ctx := context.Background()
	a := seedTask("Bridge", "a", "Excavate", "2024-09-01", "2024-09-05", 300, 100)
	b := seedTask("Bridge", "b", "Pour", "2024-09-06", "2024-09-10", 100, 0)
	svc := NewService(newMemoryStore(a, b))

	summary, err := svc.ProjectSummary(ctx, "Bridge")
	if err != nil {
		t.Fatalf("ProjectSummary failed: %v", err)
	}
	if summary.TaskCount != 2 || summary.LeafCount != 2 {
		t.Fatalf("expected 2 tasks and 2 leaves, got %d and %d", summary.TaskCount, summary.LeafCount)
	}
	if summary.TotalCost != 400 {
		t.Fatalf("expected total cost 400, got %v", summary.TotalCost)
	}
	if summary.AvgProgress != 75 {
		t.Fatalf("expected weighted progress 75, got %v", summary.AvgProgress)
	}
	if summary.PlanStart != "2024-09-01" || summary.PlanEnd != "2024-09-10" {
		t.Fatalf("expected range 2024-09-01..2024-09-10, got %s..%s", summary.PlanStart, summary.PlanEnd)
	}
}

func TestServiceSCurveCoversPlanRange(t *testing.T) {
	ctx := context.Background()
	a := seedTask("Bridge", "a", "Excavate", "2024-09-01", "2024-09-05", 100, 0)
	svc := NewService(newMemoryStore(a))

	series, err := svc.SCurve(ctx, "Bridge", "2024-09-10")
	if err != nil {
		t.Fatalf("SCurve failed: %v", err)
	}
	if series.Days != 5 {
		t.Fatalf("expected 5 days, got %d", series.Days)
	}
	if len(series.Plan) != 5 {
		t.Fatalf("expected 5 plan points, got %d", len(series.Plan))
	}
	if series.Plan[4] != 100 {
		t.Fatalf("expected plan to reach 100, got %v", series.Plan[4])
	}
}

func TestServiceSearchTasksLimits(t *testing.T) {
	ctx := context.Background()
	tasks := []*task.Task{
		seedTask("Bridge", "a", "Pour footings", "", "", 0, 0),
		seedTask("Bridge", "b", "Pour deck", "", "", 0, 0),
		seedTask("Tunnel", "c", "Pour lining", "", "", 0, 0),
	}
	svc := NewService(newMemoryStore(tasks...))

	results, err := svc.SearchTasks(ctx, "pour", 2)
	if err != nil {
		t.Fatalf("SearchTasks failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	none, err := svc.SearchTasks(ctx, "   ", 10)
	if err != nil {
		t.Fatalf("SearchTasks failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no results for blank query, got %d", len(none))
	}
}

func TestServiceTaskByIDNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.TaskByID(ctx, "Bridge", "ghost")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("Completed"); err != nil || s != task.StatusCompleted {
		t.Fatalf("expected completed, got %v %v", s, err)
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestServiceGroupDTOsCarryLeafRollUps(t *testing.T) {
	ctx := context.Background()
	group := seedTask("Bridge", "g", "Structure", "", "", 0, 0)
	group.Type = task.TypeGroup
	first := seedTask("Bridge", "a", "Columns", "2024-09-02", "2024-09-06", 500, 100)
	first.ParentID = "g"
	second := seedTask("Bridge", "b", "Beams", "2024-09-09", "2024-09-13", 500, 0)
	second.ParentID = "g"
	svc := NewService(newMemoryStore(group, first, second))

	dtos, err := svc.ListTasks(ctx, "Bridge")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	var got *TaskDTO
	for i := range dtos {
		if dtos[i].ID == "g" {
			got = &dtos[i]
		}
	}
	if got == nil {
		t.Fatalf("group missing from listing")
	}
	if got.PlanStart != "2024-09-02" || got.PlanEnd != "2024-09-13" {
		t.Fatalf("expected leaf span on the group, got %s to %s", got.PlanStart, got.PlanEnd)
	}
	if got.DurationDays != 12 {
		t.Fatalf("expected 12 day span, got %d", got.DurationDays)
	}
	if got.Progress != 50 {
		t.Fatalf("expected weighted progress 50, got %d", got.Progress)
	}
	if got.Cost != 1000 {
		t.Fatalf("expected summed leaf cost, got %v", got.Cost)
	}

	one, err := svc.TaskByID(ctx, "Bridge", "g")
	if err != nil {
		t.Fatalf("TaskByID failed: %v", err)
	}
	if one.PlanStart != "2024-09-02" || one.Progress != 50 {
		t.Fatalf("expected roll-up on single fetch, got %+v", one)
	}
}
