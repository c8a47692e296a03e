package teaui

import (
	"context"

	"tableflip.dev/gantt/pkg/store"
	tuiapp "tableflip.dev/gantt/pkg/tui/app"
)

// Run launches the Bubble Tea UI (legacy entrypoint wrapping pkg/tui/app).
func Run(p store.Persistence, project string, cascade bool) error {
	return tuiapp.Run(context.Background(), p, project, cascade)
}
