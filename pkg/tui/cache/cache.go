package cache

import (
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tui/events"
)

// Snapshot exposes the current cached state: the project catalog and the
// active project's tasks in display order.
type Snapshot struct {
	Projects []project.Meta
	Project  string
	Tasks    []*task.Task
}

// Cache maintains the in-memory schedule for the active project and emits
// typed events on mutation. It mirrors the behavior of a Kubernetes-style
// informer cache: state lives locally, watchers subscribe to emitted events,
// and consumers read consistent snapshots without hitting the store.
type Cache struct {
	component events.ComponentID

	mu sync.RWMutex

	projects []project.Meta
	active   string
	tasks    map[string]*task.Task

	eventCh chan tea.Msg
}

// New creates an empty cache that will emit events using the provided
// ComponentID (falls back to "cache" if empty).
func New(component events.ComponentID) *Cache {
	if component == "" {
		component = events.ComponentID("cache")
	}
	return &Cache{
		component: component,
		tasks:     make(map[string]*task.Task),
		eventCh:   make(chan tea.Msg, 64),
	}
}

// Events exposes the cache event channel for Bubble Tea subscriptions.
func (c *Cache) Events() <-chan tea.Msg {
	return c.eventCh
}

// SetProjects seeds the project catalog. It emits no events; callers emit
// change messages if desired. Safe to call multiple times.
func (c *Cache) SetProjects(metas []project.Meta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = cloneMetas(metas)
	sort.Slice(c.projects, func(i, j int) bool {
		return strings.ToLower(c.projects[i].Name) < strings.ToLower(c.projects[j].Name)
	})
}

// SetTasks replaces the active project's task set without diffing. Used for
// the initial load; reconciliation goes through ApplySnapshot.
func (c *Cache) SetTasks(proj string, tasks []*task.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = proj
	c.tasks = make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		if t == nil || t.ID == "" {
			continue
		}
		c.tasks[t.ID] = t.Clone()
	}
}

// Snapshot returns a copy of the current state. The returned data should be
// treated as immutable by callers.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Projects: cloneMetas(c.projects),
		Project:  c.active,
		Tasks:    c.sortedTasksLocked(),
	}
}

// Active returns the name of the project the cache is tracking.
func (c *Cache) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Task returns a copy of one cached task.
func (c *Cache) Task(id string) (*task.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// UpsertTask inserts or replaces a task and emits a TaskChangeMsg.
func (c *Cache) UpsertTask(t *task.Task) {
	if t == nil || t.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	action := events.ChangeCreate
	if _, ok := c.tasks[t.ID]; ok {
		action = events.ChangeUpdate
	}
	c.tasks[t.ID] = t.Clone()
	c.emitLocked(events.TaskChangeMsg{
		Component: c.component,
		Action:    action,
		Project:   c.projectRefLocked(),
		Task:      refOf(t),
	})
}

// RemoveTask drops a task and emits a delete event when it existed.
func (c *Cache) RemoveTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[id]
	if !ok {
		return
	}
	delete(c.tasks, id)
	c.emitLocked(events.TaskChangeMsg{
		Component: c.component,
		Action:    events.ChangeDelete,
		Project:   c.projectRefLocked(),
		Task:      refOf(t),
	})
}

// ApplySnapshot reconciles the cache with the provided snapshot, emitting
// task change events for any detected differences.
func (c *Cache) ApplySnapshot(snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.projects = cloneMetas(snapshot.Projects)
	c.active = snapshot.Project

	next := make(map[string]*task.Task, len(snapshot.Tasks))
	for _, t := range snapshot.Tasks {
		if t == nil || t.ID == "" {
			continue
		}
		next[t.ID] = t.Clone()
	}

	ref := c.projectRefLocked()
	for id, old := range c.tasks {
		if _, ok := next[id]; !ok {
			c.emitLocked(events.TaskChangeMsg{
				Component: c.component,
				Action:    events.ChangeDelete,
				Project:   ref,
				Task:      refOf(old),
			})
		}
	}
	for id, t := range next {
		old, ok := c.tasks[id]
		switch {
		case !ok:
			c.emitLocked(events.TaskChangeMsg{
				Component: c.component,
				Action:    events.ChangeCreate,
				Project:   ref,
				Task:      refOf(t),
			})
		case !tasksEqual(old, t):
			c.emitLocked(events.TaskChangeMsg{
				Component: c.component,
				Action:    events.ChangeUpdate,
				Project:   ref,
				Task:      refOf(t),
			})
		}
	}
	c.tasks = next
}

func (c *Cache) sortedTasksLocked() []*task.Task {
	out := make([]*task.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
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

func (c *Cache) projectRefLocked() events.ProjectRef {
	ref := events.ProjectRef{Name: c.active}
	for _, m := range c.projects {
		if m.Name == c.active {
			ref.Start = m.Start
			ref.End = m.End
			break
		}
	}
	return ref
}

// emitLocked publishes without blocking; a full channel drops the event
// rather than stalling a mutation under the lock.
func (c *Cache) emitLocked(msg tea.Msg) {
	select {
	case c.eventCh <- msg:
	default:
	}
}

func refOf(t *task.Task) events.TaskRef {
	return events.TaskRef{
		ID:       t.ID,
		Name:     t.Name,
		ParentID: t.ParentID,
		Type:     t.Type,
		Status:   t.Status,
	}
}

func cloneMetas(metas []project.Meta) []project.Meta {
	out := make([]project.Meta, len(metas))
	copy(out, metas)
	return out
}

func tasksEqual(a, b *task.Task) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.ParentID != b.ParentID || a.Type != b.Type ||
		a.Status != b.Status || a.Progress != b.Progress ||
		a.Cost != b.Cost || a.Quantity != b.Quantity ||
		a.Responsible != b.Responsible || a.Order != b.Order ||
		a.Category != b.Category || a.Subcategory != b.Subcategory ||
		a.Subsubcategory != b.Subsubcategory {
		return false
	}
	if !a.PlanStart.Equal(b.PlanStart) || !a.PlanEnd.Equal(b.PlanEnd) {
		return false
	}
	if !datePtrEqual(a.ActualStart, b.ActualStart) || !datePtrEqual(a.ActualEnd, b.ActualEnd) {
		return false
	}
	if len(a.Predecessors) != len(b.Predecessors) {
		return false
	}
	for i := range a.Predecessors {
		if a.Predecessors[i] != b.Predecessors[i] {
			return false
		}
	}
	return true
}

func datePtrEqual(a, b *task.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
