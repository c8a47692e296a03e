// Package projects contains runners for project catalog commands.
package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
)

// List prints the project catalog.
type List struct {
	Persistence store.Persistence
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list projects, no persistence")
	}
	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Title("Projects")
	pp.Projects(n.Persistence.Projects(ctx, ""))
	return nil
}

// Ensure creates a project, optionally with a date range.
type Ensure struct {
	Project string
	Start   string
	End     string

	Persistence store.Persistence
}

func (n *Ensure) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not create project, no persistence")
	}
	name := strings.TrimSpace(n.Project)
	if name == "" {
		return errors.New("project name is required")
	}
	if err := n.Persistence.EnsureProject(name); err != nil {
		return err
	}

	if n.Start != "" || n.End != "" {
		start, err := task.ParseDate(n.Start)
		if err != nil {
			return fmt.Errorf("bad start date %q: %w", n.Start, err)
		}
		end, err := task.ParseDate(n.End)
		if err != nil {
			return fmt.Errorf("bad end date %q: %w", n.End, err)
		}
		if err := n.Persistence.SetProjectRange(name, start, end); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Projects(n.Persistence.Projects(ctx, ""))
	return nil
}
