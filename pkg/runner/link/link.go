// Package link contains runners for dependency management commands.
package link

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/depgraph"
	"tableflip.dev/gantt/pkg/store"
)

// Link records that the target task starts after the source task ends.
type Link struct {
	Project string
	Source  string
	Target  string

	Persistence store.Persistence
}

func (n *Link) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not link, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}
	t, err := svc.Link(ctx, n.Project, n.Source, depgraph.AnchorEnd, n.Target, depgraph.AnchorStart)
	if err != nil {
		return err
	}
	fmt.Printf("%s now depends on %s\n", t.Name, n.Source)
	return nil
}

// Unlink removes the dependency of target on source.
type Unlink struct {
	Project string
	Source  string
	Target  string

	Persistence store.Persistence
}

func (n *Unlink) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not unlink, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}
	t, err := svc.Unlink(ctx, n.Project, n.Source, n.Target)
	if err != nil {
		return err
	}
	fmt.Printf("%s no longer depends on %s\n", t.Name, n.Source)
	return nil
}
