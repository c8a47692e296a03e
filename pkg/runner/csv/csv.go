// Package csv contains runners for schedule import and export.
package csv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/gantt/pkg/csvio"
	"tableflip.dev/gantt/pkg/printers"
	"tableflip.dev/gantt/pkg/store"
)

// Import loads tasks from a CSV file into a project.
type Import struct {
	Project string
	Path    string
	Replace bool

	Persistence store.Persistence
}

func (n *Import) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not import, no persistence")
	}
	f, err := os.Open(n.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	tasks, err := csvio.Import(f, n.Project)
	if err != nil {
		return err
	}

	if n.Replace {
		for _, t := range n.Persistence.List(ctx, n.Project) {
			if err := n.Persistence.Delete(t); err != nil {
				return err
			}
		}
	}
	for _, t := range tasks {
		if err := n.Persistence.Store(t); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{}
	pp.TitleWithCount(n.Project, len(tasks))
	fmt.Printf("imported from %s\n", n.Path)
	return nil
}

// Export writes a project's tasks to a CSV file.
type Export struct {
	Project string
	Path    string

	Persistence store.Persistence
}

func (n *Export) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not export, no persistence")
	}
	tasks := n.Persistence.List(ctx, n.Project)
	if len(tasks) == 0 {
		return fmt.Errorf("project %q has no tasks", n.Project)
	}

	f, err := os.Create(n.Path)
	if err != nil {
		return err
	}
	if err := csvio.Export(f, tasks); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %d tasks to %s\n", len(tasks), n.Path)
	return nil
}
