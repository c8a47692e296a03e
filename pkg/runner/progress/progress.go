package progress

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/store"
)

// Progress sets percent complete on a task.
type Progress struct {
	Project string
	ID      string
	Percent int

	Persistence store.Persistence
}

func (n *Progress) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not set progress, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}
	t, err := svc.SetProgress(ctx, n.Project, n.ID, n.Percent)
	if err != nil {
		return err
	}
	g := glyph.ForStatus(string(t.Status))
	fmt.Printf("%s %s at %d%% (%s)\n", g.Symbol, t.Name, t.Progress, t.Status)
	return nil
}
