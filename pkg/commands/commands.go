package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/gantt/pkg/commands/options"
)

var (
	oo     = &base.OutputOptions{}
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: base.Wrap80("Construction schedules and progress curves on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addGet(topLevel)
	addMove(topLevel)
	addLink(topLevel)
	addUnlink(topLevel)
	addProgress(topLevel)
	addCurve(topLevel)
	addReport(topLevel)
	addCSV(topLevel)
	addProjects(topLevel)
	addLegend(topLevel)
	addDoctor(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
