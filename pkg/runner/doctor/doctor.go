// Package doctor repairs schedule records in place.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/store"
)

// Doctor runs a normalization pass over one project or all of them.
type Doctor struct {
	Project string

	Persistence store.Persistence
}

func (n *Doctor) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not repair, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}

	names := []string{n.Project}
	if n.Project == "" {
		names = names[:0]
		for _, meta := range n.Persistence.Projects(ctx, "") {
			names = append(names, meta.Name)
		}
	}

	for _, name := range names {
		result, err := svc.Normalize(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: scanned %d, repaired %d, reordered %d\n",
			name, result.Scanned, result.Repaired, result.Reordered)
	}
	return nil
}
