package move

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
)

// Move reschedules a task's plan or actual bar from the command line.
type Move struct {
	Project string
	ID      string
	Start   string
	End     string
	Actual  bool
	Cascade bool

	Persistence store.Persistence
}

func (n *Move) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not move, no persistence")
	}
	start, err := task.ParseDate(n.Start)
	if err != nil {
		return fmt.Errorf("bad start date %q: %w", n.Start, err)
	}
	end, err := task.ParseDate(n.End)
	if err != nil {
		return fmt.Errorf("bad end date %q: %w", n.End, err)
	}
	if end.Time.Before(start.Time) {
		return fmt.Errorf("end %s precedes start %s", end, start)
	}

	bar := drag.BarPlan
	if n.Actual {
		bar = drag.BarActual
	}

	svc := &app.Service{Persistence: n.Persistence, Cascade: n.Cascade}
	t, err := svc.Reschedule(ctx, n.Project, n.ID, bar, start, end)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Title(t.Project)
	fmt.Printf("  %s now %s to %s (%d days)\n\n", t.Name, t.PlanStart, t.PlanEnd, t.Duration())
	return nil
}
