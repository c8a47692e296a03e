package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/projects"
	"tableflip.dev/gantt/pkg/store"
)

func addProjects(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Example: `
gantt projects
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := projects.List{Persistence: p}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	addProjectsCreate(cmd)

	topLevel.AddCommand(cmd)
}

func addProjectsCreate(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty project, optionally with a date range",
		Example: `
gantt projects create "Bridge Rehab" --start 2024-09-01 --end 2025-03-31
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := projects.Ensure{
				Project:     strings.Join(args, " "),
				Start:       do.Start,
				End:         do.End,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddRangeArgs(cmd, do)

	topLevel.AddCommand(cmd)
}
