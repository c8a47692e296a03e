package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gantt/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(gantt completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(gantt completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func projectCompletions(toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var names []string
	for _, meta := range p.Projects(context.Background(), "") {
		if strings.HasPrefix(strings.ToLower(meta.Name), strings.ToLower(toComplete)) {
			names = append(names, meta.Name)
		}
	}
	return names
}

func registerProjectCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("project", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return projectCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}
