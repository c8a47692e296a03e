package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/timeline"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
)

type Get struct {
	ShowID      bool
	Project     string
	Chart       bool
	Mode        timeline.ViewMode
	Persistence store.Persistence
}

func (n *Get) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: n.ShowID}

	if n.Persistence == nil {
		return errors.New("can not get, no persistence")
	}
	fmt.Println("")

	if n.Project != "" {
		return n.one(ctx, pp, n.Project)
	}

	for _, meta := range n.Persistence.Projects(ctx, "") {
		if err := n.one(ctx, pp, meta.Name); err != nil {
			return err
		}
	}
	return nil
}

func (n *Get) one(ctx context.Context, pp printers.PrettyPrint, proj string) error {
	tasks := n.Persistence.List(ctx, proj)
	idx := tree.Build(tasks)
	rows, _ := rowindex.Build(idx, nil)

	pp.TitleWithCount(proj, idx.Len())
	pp.Schedule(idx, rows)

	if n.Chart {
		start, end, ok := planWindow(idx)
		if !ok {
			return nil
		}
		mode := n.Mode
		if mode == "" {
			mode = timeline.ModeDay
		}
		scale := timeline.Scale{Start: start, End: end, Mode: mode, CellWidth: 1}
		pp.Gantt(idx, rows, scale)
	}
	return nil
}

func planWindow(idx *tree.Index) (start, end time.Time, ok bool) {
	for _, t := range idx.All() {
		if !t.HasValidPlan() {
			continue
		}
		s, e := t.PlanStart.Time, t.PlanEnd.Time
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}
	if ok {
		start = timeutil.Midnight(start)
		end = timeutil.Midnight(end)
	}
	return start, end, ok
}
