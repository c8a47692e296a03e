package curve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
)

// Curve prints the cumulative progress chart for a project.
type Curve struct {
	Project string
	AsOf    string

	Persistence store.Persistence
}

func (n *Curve) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not plot, no persistence")
	}
	ref, err := referenceDate(n.Persistence, n.Project, n.AsOf)
	if err != nil {
		return err
	}

	svc := &app.Service{Persistence: n.Persistence}
	report, err := svc.Report(ctx, n.Project, ref)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Title(n.Project)
	pp.Curve(report.Curve)
	pp.Summary(n.Project, report.Total)
	return nil
}

// referenceDate resolves the evaluation date: an explicit --as-of wins,
// then the project's saved reference date, then today.
func referenceDate(p store.Persistence, proj, asOf string) (time.Time, error) {
	if asOf != "" {
		d, err := task.ParseDate(asOf)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad reference date %q: %w", asOf, err)
		}
		return d.Time, nil
	}
	if prefs, err := p.LoadPrefs(proj); err == nil && !prefs.ReferenceDate.IsZero() {
		return prefs.ReferenceDate.Time, nil
	}
	return time.Now(), nil
}
