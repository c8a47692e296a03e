package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/link"
	"tableflip.dev/gantt/pkg/store"
)

func addLink(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "link [source-id] [target-id]",
		Short: "Make target start after source finishes",
		Example: `
gantt link 171dff69 8a2b01c4 -p "Bridge Rehab"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := link.Link{
				Project:     po.Project,
				Source:      args[0],
				Target:      args[1],
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

func addUnlink(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "unlink [source-id] [target-id]",
		Short: "Remove a dependency between two tasks",
		Example: `
gantt unlink 171dff69 8a2b01c4 -p "Bridge Rehab"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := link.Unlink{
				Project:     po.Project,
				Source:      args[0],
				Target:      args[1],
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
