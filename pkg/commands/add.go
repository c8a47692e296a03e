package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/add"
	"tableflip.dev/gantt/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	do := &options.DateOptions{}
	var (
		parentID       string
		group          bool
		category       string
		subcategory    string
		subsubcategory string
		cost           float64
		quantity       string
		responsible    string
		barColor       string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a task or group to a project",
		Long: options.Wrap80("Add a task to a project's schedule. Leaf tasks carry plan dates, " +
			"cost, quantity, and a responsible crew; groups collect child tasks and derive " +
			"their dates and progress from them. Category labels group root tasks into " +
			"heading bands on the chart."),
		Example: `
gantt add "Pour footings" -p "Bridge Rehab" --start 2024-09-02 --end 2024-09-13 --cost 42000
gantt add "Substructure" -p "Bridge Rehab" --group
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a task name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if po.Project == "" {
				return errors.New("a project is required, use --project")
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := add.Add{
				Project:        po.Project,
				Name:           strings.Join(args, " "),
				ParentID:       parentID,
				Group:          group,
				Category:       category,
				Subcategory:    subcategory,
				Subsubcategory: subsubcategory,
				Start:          do.Start,
				End:            do.End,
				Cost:           cost,
				Quantity:       quantity,
				Responsible:    responsible,
				Color:          barColor,
				Persistence:    p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	options.AddRangeArgs(cmd, do)
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent group id.")
	cmd.Flags().BoolVar(&group, "group", false, "Create a group instead of a leaf task.")
	cmd.Flags().StringVar(&category, "category", "", "Category label.")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "Subcategory label.")
	cmd.Flags().StringVar(&subsubcategory, "subsubcategory", "", "Third-level category label.")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Budgeted cost, used to weight progress.")
	cmd.Flags().StringVar(&quantity, "quantity", "", `Work quantity, example: --quantity="120 m3".`)
	cmd.Flags().StringVar(&responsible, "responsible", "", "Crew or person responsible.")
	cmd.Flags().StringVar(&barColor, "color", "", "Bar color override.")

	topLevel.AddCommand(cmd)
}
