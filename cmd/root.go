package cmd

import (
	"github.com/grovetools/vibediary/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the vibediary command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"vibediary",
		"Record coding-assistant sessions and turn them into diary posts",
	)
	rootCmd.Long = `Record coding-assistant sessions and turn them into diary posts.

The hook subcommands are invoked by the assistant's lifecycle hooks with a
JSON payload on stdin. The remaining commands inspect what was recorded.

Examples:
  vibediary hook activity < payload.json
  vibediary sessions list
  vibediary generate 4f2c9a --dry-run
  vibediary posts browse`
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(NewHookCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewSessionsCmd())
	rootCmd.AddCommand(NewPostsCmd())
	rootCmd.AddCommand(NewTailCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("vibediary"))

	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
