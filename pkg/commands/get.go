package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/commands/options"
	"tableflip.dev/gantt/pkg/runner/get"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/timeline"
)

func addGet(topLevel *cobra.Command) {
	po := &options.ProjectOptions{}
	io := &options.IDOptions{}
	var (
		chart bool
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the task table, or the chart with --chart",
		Example: `
gantt get -p "Bridge Rehab"
gantt get -p "Bridge Rehab" --chart --mode week
gantt get --all
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := timeline.ViewMode(mode)
			switch vm {
			case timeline.ModeDay, timeline.ModeWeek, timeline.ModeMonth:
			default:
				return fmt.Errorf("unknown mode %q (expected day, week, or month)", mode)
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:      io.ShowID,
				Project:     po.Project,
				Chart:       chart,
				Mode:        vm,
				Persistence: p,
			}
			if po.All {
				s.Project = ""
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddProjectArgs(cmd, po)
	registerProjectCompletion(cmd)
	options.AddAllProjectsArg(cmd, po)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVar(&chart, "chart", false, "Render the timeline chart instead of the table.")
	cmd.Flags().StringVar(&mode, "mode", string(timeline.ModeDay), "Timeline zoom: day, week, or month.")

	topLevel.AddCommand(cmd)
}
