package root

import (
	"github.com/spf13/cobra"

	"github.com/buildforge/compiler/cmd/forge/build"
	"github.com/buildforge/compiler/cmd/forge/version"
	"github.com/buildforge/compiler/cmd/forge/watchcmd"
)

// NewRootCmd creates the root command for forge.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forge",
		Short: "CLI: a minimal driver for the compilation core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(build.Cmd)
	cmd.AddCommand(watchcmd.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
