package add

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tree"
)

type Add struct {
	Project        string
	Name           string
	ParentID       string
	Group          bool
	Category       string
	Subcategory    string
	Subsubcategory string
	Start          string
	End            string
	Cost           float64
	Quantity       string
	Responsible    string
	Color          string

	Persistence store.Persistence
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}

	fields := task.Fields{
		Category:       strptr(n.Category),
		Subcategory:    strptr(n.Subcategory),
		Subsubcategory: strptr(n.Subsubcategory),
		Responsible:    strptr(n.Responsible),
		Color:          strptr(n.Color),
	}
	if n.Group {
		typ := task.TypeGroup
		fields.Type = &typ
	}
	if n.Cost != 0 {
		fields.Cost = &n.Cost
	}
	if n.Quantity != "" {
		fields.Quantity = &n.Quantity
	}
	if n.Start != "" {
		d, err := task.ParseDate(n.Start)
		if err != nil {
			return fmt.Errorf("bad start date %q: %w", n.Start, err)
		}
		fields.PlanStart = &d
	}
	if n.End != "" {
		d, err := task.ParseDate(n.End)
		if err != nil {
			return fmt.Errorf("bad end date %q: %w", n.End, err)
		}
		fields.PlanEnd = &d
	}

	t, err := svc.Create(ctx, n.Project, n.Name, n.ParentID, fields)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Title(t.Project)
	idx := tree.Build(n.Persistence.List(ctx, t.Project))
	rows, _ := rowindex.Build(idx, nil)
	pp.Schedule(idx, rows)
	return nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
