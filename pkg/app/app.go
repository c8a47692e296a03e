package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tableflip.dev/gantt/pkg/depgraph"
	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeutil"
)

// Service provides high-level operations for tasks and projects. It wraps
// persistence and schedule transformations so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence

	// Cascade shifts transitive successors by the same delta when a
	// predecessor's end date moves. Off by default.
	Cascade bool

	mu       sync.Mutex
	updating map[string]struct{}
}

var (
	ErrNotFound = errors.New("app: task not found")
	ErrUpdating = errors.New("app: task has a pending update")
)

// Projects returns the catalog, sorted by name.
func (s *Service) Projects(ctx context.Context) ([]project.Meta, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Projects(ctx, ""), nil
}

// Tasks lists tasks for a project in order.
func (s *Service) Tasks(ctx context.Context, proj string) ([]*task.Task, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.List(ctx, proj), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

// Create stores a new task ordered after all current siblings.
func (s *Service) Create(ctx context.Context, proj, name, parentID string, fields task.Fields) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("app: task name required")
	}
	t := task.New(proj, name)
	t.ParentID = parentID
	fields.Apply(t)

	last := 0.0
	for _, sib := range s.Persistence.List(ctx, proj) {
		if sib.ParentID == parentID && sib.Order > last {
			last = sib.Order
		}
	}
	t.Order = task.OrderAfter(last)

	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies a partial mutation to the task with the given id.
func (s *Service) Update(ctx context.Context, proj, id string, fields task.Fields) (*task.Task, error) {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return nil, err
	}
	fields.Apply(t)
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task permanently. Children are not deleted; they are
// promoted to roots by the tree index on the next build.
func (s *Service) Delete(ctx context.Context, proj, id string) error {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return err
	}
	if err := s.Persistence.Delete(t); err != nil {
		return err
	}
	// Drop dangling predecessor references from the survivors.
	for _, other := range s.Persistence.List(ctx, proj) {
		if other.HasPredecessor(id) {
			other.RemovePredecessor(id)
			if err := s.Persistence.Store(other); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetProgress sets percent complete, clamped to [0, 100], and keeps the
// status in step unless the task was marked delayed.
func (s *Service) SetProgress(ctx context.Context, proj, id string, pct int) (*task.Task, error) {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return nil, err
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	t.Progress = pct
	if t.Status != task.StatusDelayed {
		switch {
		case pct >= 100:
			t.Status = task.StatusCompleted
		case pct > 0:
			t.Status = task.StatusInProgress
		default:
			t.Status = task.StatusNotStarted
		}
	}
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reschedule moves the plan or actual bar of a task to new dates. With the
// cascade policy enabled, a plan end-date change shifts every transitive
// successor's plan interval by the same number of days.
func (s *Service) Reschedule(ctx context.Context, proj, id string, bar drag.Bar, start, end task.Date) (*task.Task, error) {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return nil, err
	}

	var delta int
	switch bar {
	case drag.BarActual:
		as, ae := start, end
		t.ActualStart = &as
		t.ActualEnd = &ae
	default:
		if !t.PlanEnd.IsZero() {
			delta = timeutil.DaysBetween(t.PlanEnd.Time, end.Time)
		}
		t.PlanStart = start
		t.PlanEnd = end
		t.PlanDuration = t.Duration()
	}

	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}

	if s.Cascade && bar != drag.BarActual && delta != 0 {
		if err := s.shiftSuccessors(ctx, proj, id, delta); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ApplyCommit routes a released drag gesture to Reschedule.
func (s *Service) ApplyCommit(ctx context.Context, proj string, c drag.Commit) (*task.Task, error) {
	return s.Reschedule(ctx, proj, c.TaskID, c.Bar, task.DateOf(c.Start), task.DateOf(c.End))
}

func (s *Service) shiftSuccessors(ctx context.Context, proj, id string, delta int) error {
	tasks := s.Persistence.List(ctx, proj)
	g := depgraph.New(tasks)
	byID := make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, succID := range g.TransitiveSuccessors(id) {
		succ := byID[succID]
		if succ == nil || !succ.HasValidPlan() {
			continue
		}
		succ.PlanStart = succ.PlanStart.AddDays(delta)
		succ.PlanEnd = succ.PlanEnd.AddDays(delta)
		if err := s.Persistence.Store(succ); err != nil {
			return err
		}
	}
	return nil
}

// Link records target as depending on source. Only end-to-start links are
// legal, and a link that would close a cycle is rejected.
func (s *Service) Link(ctx context.Context, proj, source string, sourceAnchor depgraph.Anchor, target string, targetAnchor depgraph.Anchor) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	tasks := s.Persistence.List(ctx, proj)
	g := depgraph.New(tasks)
	if err := g.Validate(source, sourceAnchor, target, targetAnchor); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == target {
			t.AddPredecessor(source)
			if err := s.Persistence.Store(t); err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// Unlink removes the dependency of target on source. Removal is
// unconditional.
func (s *Service) Unlink(ctx context.Context, proj, source, target string) (*task.Task, error) {
	t, err := s.get(ctx, proj, target)
	if err != nil {
		return nil, err
	}
	t.RemovePredecessor(source)
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Graph builds the dependency graph for a project.
func (s *Service) Graph(ctx context.Context, proj string) (*depgraph.Graph, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return depgraph.New(s.Persistence.List(ctx, proj)), nil
}

// Reorder drops a task next to a target sibling. Above a target the task
// takes the midpoint of the target and its previous sibling; below the last
// sibling it takes the last order plus the standard gap.
func (s *Service) Reorder(ctx context.Context, proj, id, targetID string, below bool) (*task.Task, error) {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return nil, err
	}
	target, err := s.get(ctx, proj, targetID)
	if err != nil {
		return nil, err
	}

	siblings := make([]*task.Task, 0)
	for _, sib := range s.Persistence.List(ctx, proj) {
		if sib.ParentID == target.ParentID && sib.ID != id {
			siblings = append(siblings, sib)
		}
	}

	pos := -1
	for i, sib := range siblings {
		if sib.ID == targetID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, ErrNotFound
	}

	t.ParentID = target.ParentID
	switch {
	case below && pos == len(siblings)-1:
		t.Order = task.OrderAfter(target.Order)
	case below:
		t.Order = task.OrderBetween(target.Order, siblings[pos+1].Order)
	case pos == 0:
		t.Order = task.OrderFirst(target.Order)
	default:
		t.Order = task.OrderBetween(siblings[pos-1].Order, target.Order)
	}

	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reparent reassigns the parent relationship for a task within a project.
func (s *Service) Reparent(ctx context.Context, proj, id, parentID string) (*task.Task, error) {
	t, err := s.get(ctx, proj, id)
	if err != nil {
		return nil, err
	}
	if parentID == "" {
		t.ParentID = ""
		if err := s.Persistence.Store(t); err != nil {
			return nil, err
		}
		return t, nil
	}

	tasks := s.Persistence.List(ctx, proj)
	byID := make(map[string]*task.Task, len(tasks))
	for _, other := range tasks {
		byID[other.ID] = other
	}
	parent, ok := byID[parentID]
	if !ok {
		return nil, errors.New("app: parent task not found")
	}
	if parent.Type != task.TypeGroup {
		return nil, errors.New("app: parent must be a group")
	}
	if createsCycle(byID, id, parentID) {
		return nil, errors.New("app: parent assignment would create cycle")
	}
	t.ParentID = parentID
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// EnsureProject ensures the named project exists even if empty.
func (s *Service) EnsureProject(ctx context.Context, proj string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.EnsureProject(proj)
}

// MarkUpdating flags a task as having a pending persistence call. It
// returns false when the task is already flagged.
func (s *Service) MarkUpdating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updating == nil {
		s.updating = make(map[string]struct{})
	}
	if _, busy := s.updating[id]; busy {
		return false
	}
	s.updating[id] = struct{}{}
	return true
}

// ClearUpdating removes the pending flag.
func (s *Service) ClearUpdating(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.updating, id)
}

// IsUpdating reports whether a task has a pending persistence call.
func (s *Service) IsUpdating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.updating[id]
	return busy
}

func (s *Service) get(ctx context.Context, proj, id string) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	t, err := s.Persistence.Get(ctx, proj, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func createsCycle(items map[string]*task.Task, childID, candidateParentID string) bool {
	current := candidateParentID
	for current != "" {
		if current == childID {
			return true
		}
		next := items[current]
		if next == nil {
			break
		}
		current = next.ParentID
	}
	return false
}
