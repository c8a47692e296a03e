package app

import (
	"context"
	"errors"

	"tableflip.dev/gantt/pkg/task"
)

// NormalizeResult reports what a normalization pass changed.
type NormalizeResult struct {
	Scanned   int
	Repaired  int
	Reordered int
}

// Normalize repairs records written by older versions or edited by hand:
// derived durations out of step with their dates, progress outside [0, 100],
// predecessor references to tasks that no longer exist, and order collisions
// left behind by exhausted midpoints. Repaired tasks are stored back.
func (s *Service) Normalize(ctx context.Context, proj string) (NormalizeResult, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return NormalizeResult{}, err
		}
	}
	if s.Persistence == nil {
		return NormalizeResult{}, errors.New("app: no persistence configured")
	}

	tasks := s.Persistence.List(ctx, proj)
	byID := make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	result := NormalizeResult{Scanned: len(tasks)}
	for _, t := range tasks {
		dirty := false

		if d := t.Duration(); t.PlanDuration != d {
			t.PlanDuration = d
			dirty = true
		}
		if t.Progress < 0 {
			t.Progress = 0
			dirty = true
		}
		if t.Progress > 100 {
			t.Progress = 100
			dirty = true
		}
		if t.Status == "" {
			t.Status = task.StatusNotStarted
			dirty = true
		}
		for _, pred := range append([]string(nil), t.Predecessors...) {
			if _, ok := byID[pred]; !ok {
				t.RemovePredecessor(pred)
				dirty = true
			}
		}
		if t.ParentID != "" {
			if _, ok := byID[t.ParentID]; !ok {
				t.ParentID = ""
				dirty = true
			}
		}

		if dirty {
			if err := s.Persistence.Store(t); err != nil {
				return result, err
			}
			result.Repaired++
		}
	}

	reordered, err := s.respaceSiblings(tasks)
	if err != nil {
		return result, err
	}
	result.Reordered = reordered
	return result, nil
}

// respaceSiblings reassigns order values with the standard gap wherever two
// siblings collide, preserving the current relative order.
func (s *Service) respaceSiblings(tasks []*task.Task) (int, error) {
	byParent := make(map[string][]*task.Task)
	for _, t := range tasks {
		byParent[t.ParentID] = append(byParent[t.ParentID], t)
	}

	reordered := 0
	for _, siblings := range byParent {
		collision := false
		for i := 1; i < len(siblings); i++ {
			if siblings[i].Order == siblings[i-1].Order {
				collision = true
				break
			}
		}
		if !collision {
			continue
		}
		next := 0.0
		for _, t := range siblings {
			next = task.OrderAfter(next)
			t.Order = next
			if err := s.Persistence.Store(t); err != nil {
				return reordered, err
			}
			reordered++
		}
	}
	return reordered, nil
}
