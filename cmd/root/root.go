package root

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchclick/searchclick/cmd"
	"github.com/searchclick/searchclick/cmd/configure"
	"github.com/searchclick/searchclick/cmd/run"
)

func NewCommand(ctx context.Context) *cobra.Command {
	command := &cobra.Command{
		Use:     cmd.CommandNameRoot,
		Aliases: []string{cmd.CommandAliasRoot},
		Short:   "searchclick opens a search engine, searches and clicks the first matching result",
		PersistentPreRun: func(c *cobra.Command, args []string) {
			c.SetOut(os.Stdout)
			c.SetErr(os.Stderr)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return c.Help()
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	command.SetHelpCommand(&cobra.Command{
		Hidden: true,
	})
	command.PersistentFlags().String(cmd.FlagNameConfigFile, cmd.ConfigFileDefault, "path to the config file")
	command.PersistentFlags().Bool(cmd.FlagNameVerbose, false, "enable debug logging")
	command.AddCommand(
		configure.NewCommand(ctx),
		run.NewCommand(ctx),
	)
	command.SetOut(os.Stdout)
	command.SetErr(os.Stderr)
	return command
}
