package ui

import (
	"context"

	"tableflip.dev/gantt/pkg/store"
	tuiapp "tableflip.dev/gantt/pkg/tui/app"
)

// UI opens the interactive schedule editor for one project.
type UI struct {
	Persistence store.Persistence
	Project     string
	Cascade     bool
}

func (u *UI) Do(ctx context.Context) error {
	return tuiapp.Run(ctx, u.Persistence, u.Project, u.Cascade)
}
