package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/progress"
	"tableflip.dev/gantt/pkg/store"
)

func addProgress(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "progress [id] [percent]",
		Short: "Set percent complete on a task",
		Example: `
gantt progress 171dff69 60 -p "Bridge Rehab"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be a number, got %q", args[1])
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := progress.Progress{
				Project:     po.Project,
				ID:          args[0],
				Percent:     pct,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)

	topLevel.AddCommand(cmd)
}
