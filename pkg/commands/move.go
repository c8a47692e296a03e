package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/move"
	"tableflip.dev/gantt/pkg/store"
)

func addMove(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	do := &options.DateOptions{}
	var (
		actual  bool
		cascade bool
	)

	cmd := &cobra.Command{
		Use:     "move [id]",
		Aliases: []string{"reschedule"},
		Short:   "Reschedule a task's plan or actual dates",
		Example: `
gantt move 171dff69 -p "Bridge Rehab" --start 2024-09-09 --end 2024-09-20
gantt move 171dff69 -p "Bridge Rehab" --actual --start 2024-09-10 --end 2024-09-22
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			if do.Start == "" || do.End == "" {
				return errors.New("both --start and --end are required")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := move.Move{
				Project:     po.Project,
				ID:          args[0],
				Start:       do.Start,
				End:         do.End,
				Actual:      actual,
				Cascade:     cascade,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	options.AddRangeArgs(cmd, do)
	cmd.Flags().BoolVar(&actual, "actual", false, "Move the actual bar instead of the plan bar.")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Shift successors by the same number of days.")

	topLevel.AddCommand(cmd)
}
