package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/csv"
	"tableflip.dev/gantt/pkg/store"
)

func addCSV(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Move schedules in and out as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addCSVImport(cmd)
	addCSVExport(cmd)

	topLevel.AddCommand(cmd)
}

func addCSVImport(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	replace := false

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load tasks from a CSV file into a project",
		Example: `
gantt csv import schedule.csv -p "Bridge Rehab"
gantt csv import schedule.csv -p "Bridge Rehab" --replace
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := csv.Import{
				Project:     po.Project,
				Path:        args[0],
				Replace:     replace,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete the project's tasks before importing.")

	topLevel.AddCommand(cmd)
}

func addCSVExport(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a project's tasks to a CSV file",
		Example: `
gantt csv export schedule.csv -p "Bridge Rehab"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := csv.Export{
				Project:     po.Project,
				Path:        args[0],
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
