package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/doctor"
	"tableflip.dev/gantt/pkg/store"
)

func addDoctor(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Normalize stored tasks and recompute derived fields",
		Example: `
gantt doctor
gantt doctor -p "Bridge Rehab"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := doctor.Doctor{
				Project:     po.Project,
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
