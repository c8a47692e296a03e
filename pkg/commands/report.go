package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/report"
	"tableflip.dev/gantt/pkg/store"
)

func addReport(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize categories, late tasks, and upcoming starts",
		Example: `
gantt report -p "Bridge Rehab"
gantt report -p "Bridge Rehab" --as-of 2024-09-15
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := report.Report{
				Project:     po.Project,
				AsOf:        do.AsOf,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	options.AddAsOfArg(cmd, do)

	topLevel.AddCommand(cmd)
}
