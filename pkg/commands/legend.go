package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/runner/legend"
)

func addLegend(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show the chart glyphs and status symbols",
		Example: `
gantt legend
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := legend.Legend{}
			err := k.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
