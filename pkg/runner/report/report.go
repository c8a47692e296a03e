package report

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

// Report prints per-category roll-ups, late tasks, and what starts soon.
type Report struct {
	Project string
	AsOf    string

	Persistence store.Persistence
}

func (n *Report) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not report, no persistence")
	}
	ref, err := referenceDate(n.Persistence, n.Project, n.AsOf)
	if err != nil {
		return err
	}

	svc := &app.Service{Persistence: n.Persistence}
	result, err := svc.Report(ctx, n.Project, ref)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.TitleWithCount(n.Project, result.Total.Leaves)
	pp.Summary(n.Project, result.Total)

	for _, section := range result.Sections {
		pp.Summary(section.Category, section.Summary)
	}

	if len(result.Late) > 0 {
		pp.Title("Late")
		pp.Late(result.Late)
	}
	if len(result.Upcoming) > 0 {
		pp.Title("Starting soon")
		for _, t := range result.Upcoming {
			fmt.Printf("  %s (%s)\n", t.Name, t.PlanStart)
		}
		fmt.Println("")
	}
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
