package app

import (
	"context"
	"time"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
)

// ReportSection summarizes one top-level category of a project.
type ReportSection struct {
	Category string
	Summary  curve.Summary
}

// ReportResult encapsulates a schedule status report as of a reference date.
type ReportResult struct {
	Project  string
	AsOf     time.Time
	Basis    curve.Basis
	Total    curve.Summary
	Sections []ReportSection
	Late     []*task.Task
	Upcoming []*task.Task
	Curve    curve.Series
}

// Report rolls the project schedule up into per-category summaries, a
// project total, late and upcoming leaf tasks, and the cumulative progress
// series as of refDate.
func (s *Service) Report(ctx context.Context, proj string, refDate time.Time) (ReportResult, error) {
	tasks, err := s.Tasks(ctx, proj)
	if err != nil {
		return ReportResult{}, err
	}
	refDate = timeutil.Midnight(refDate)

	idx := tree.Build(tasks)
	weights, basis := curve.LeafWeights(idx.Leaves())
	total := curve.ProjectSummary(idx, weights)

	result := ReportResult{
		Project: proj,
		AsOf:    refDate,
		Basis:   basis,
		Total:   total,
	}

	for _, g := range idx.Groups() {
		leaves := make([]*task.Task, 0)
		for _, sub := range g.Subgroups {
			for _, subsub := range sub.Subgroups {
				for _, root := range subsub.Tasks {
					if idx.IsLeaf(root.ID) {
						leaves = append(leaves, root)
						continue
					}
					leaves = append(leaves, idx.LeavesUnder(root.ID)...)
				}
			}
		}
		result.Sections = append(result.Sections, ReportSection{
			Category: g.Name,
			Summary:  curve.CategorySummary(leaves, weights),
		})
	}

	for _, l := range idx.Leaves() {
		if !l.HasValidPlan() {
			continue
		}
		switch {
		case l.Status != task.StatusCompleted && l.PlanEnd.Time.Before(refDate):
			result.Late = append(result.Late, l)
		case l.Status == task.StatusNotStarted && !l.PlanStart.Time.After(timeutil.AddDays(refDate, 7)) && !l.PlanStart.Time.Before(refDate):
			result.Upcoming = append(result.Upcoming, l)
		}
	}

	if !total.Start.IsZero() && !total.End.IsZero() {
		result.Curve = curve.SCurve(idx, total.Start.Time, total.End.Time, refDate)
	}
	return result, nil
}
