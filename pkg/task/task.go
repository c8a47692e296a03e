package task

import (
	"github.com/google/uuid"

	"tableflip.dev/gantt/pkg/timeutil"
)

// Type discriminates real work items from derived containers.
type Type string

const (
	// TypeTask is a schedulable work item.
	TypeTask Type = "task"
	// TypeGroup is a container whose schedule, cost, and progress are
	// derived from its leaf descendants and never authored directly.
	TypeGroup Type = "group"
)

// Status tracks execution state.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusDelayed    Status = "delayed"
)

// Task is one row of a project schedule.
type Task struct {
	ID      string `json:"id"`
	Project string `json:"project"`
	Name    string `json:"name"`

	// ParentID is empty for root tasks. The category triple forms a
	// secondary grouping that only applies to roots.
	ParentID       string `json:"parentId,omitempty"`
	Category       string `json:"category,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
	Subsubcategory string `json:"subsubcategory,omitempty"`

	Type Type `json:"type"`

	PlanStart    Date  `json:"planStart"`
	PlanEnd      Date  `json:"planEnd"`
	PlanDuration int   `json:"planDuration"`
	ActualStart  *Date `json:"actualStart,omitempty"`
	ActualEnd    *Date `json:"actualEnd,omitempty"`

	Progress    int     `json:"progress"`
	Cost        float64 `json:"cost,omitempty"`
	Quantity    string  `json:"quantity,omitempty"`
	Responsible string  `json:"responsible,omitempty"`
	Status      Status  `json:"status"`

	// Order sorts siblings ascending. Gaps are intentional so a task can
	// be dropped between two neighbors without renumbering the rest.
	Order float64 `json:"order"`

	// Predecessors holds ids of tasks whose end gates this task's start.
	Predecessors []string `json:"predecessors,omitempty"`

	// Color only carries meaning for group tasks.
	Color string `json:"color,omitempty"`
}

// New creates a task with a fresh id, zero progress, and not-started status.
// The caller assigns Order (see OrderAfter / OrderBetween).
func New(project, name string) *Task {
	return &Task{
		ID:      uuid.New().String(),
		Project: project,
		Name:    name,
		Type:    TypeTask,
		Status:  StatusNotStarted,
	}
}

// HasValidPlan reports whether both plan dates are set and ordered.
func (t *Task) HasValidPlan() bool {
	return !t.PlanStart.IsZero() && !t.PlanEnd.IsZero() && !t.PlanEnd.Before(t.PlanStart.Time)
}

// Duration returns the inclusive plan length in days, floored at zero when
// the plan dates are missing or inverted.
func (t *Task) Duration() int {
	if !t.HasValidPlan() {
		return 0
	}
	return timeutil.DaysBetween(t.PlanStart.Time, t.PlanEnd.Time) + 1
}

// HasPredecessor reports whether id already gates this task.
func (t *Task) HasPredecessor(id string) bool {
	for _, p := range t.Predecessors {
		if p == id {
			return true
		}
	}
	return false
}

// AddPredecessor appends id if not already present.
func (t *Task) AddPredecessor(id string) {
	if !t.HasPredecessor(id) {
		t.Predecessors = append(t.Predecessors, id)
	}
}

// RemovePredecessor drops id from the predecessor set.
func (t *Task) RemovePredecessor(id string) {
	out := t.Predecessors[:0]
	for _, p := range t.Predecessors {
		if p != id {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		t.Predecessors = nil
		return
	}
	t.Predecessors = out
}

// Clone returns a deep copy, used to snapshot state before an optimistic
// mutation so a failed persistence call can restore it.
func (t *Task) Clone() *Task {
	cp := *t
	if t.ActualStart != nil {
		v := *t.ActualStart
		cp.ActualStart = &v
	}
	if t.ActualEnd != nil {
		v := *t.ActualEnd
		cp.ActualEnd = &v
	}
	if t.Predecessors != nil {
		cp.Predecessors = append([]string(nil), t.Predecessors...)
	}
	return &cp
}
