// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// ProjectOptions captures common project selection flags for commands.
type ProjectOptions struct {
	Project string
	All     bool
}

// AddProjectArgs wires the project flag on the provided command.
func AddProjectArgs(cmd *cobra.Command, o *ProjectOptions) {
	cmd.Flags().StringVarP(&o.Project, "project", "p", "",
		"Specify the project.")
}

// AddAllProjectsArg registers the flag that widens a command to every project.
func AddAllProjectsArg(cmd *cobra.Command, o *ProjectOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Operate on all projects.")
}
