package commands

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/ui"
	"tableflip.dev/gantt/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	cascade := false

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive schedule editor",
		Example: `
gantt ui --project "Bridge Rehab"
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("the ui needs a terminal, stdout is not one")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			project := po.Project
			if project == "" {
				metas := p.Projects(context.Background(), "")
				if len(metas) == 0 {
					return errors.New("no projects yet, add a task first")
				}
				project = metas[0].Name
			}
			i := ui.UI{Persistence: p, Project: project, Cascade: cascade}
			return i.Do(context.Background())
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	cmd.Flags().BoolVar(&cascade, "cascade", false,
		"Shift successors when a task moves.")

	topLevel.AddCommand(cmd)
}
