package commands

import (
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Small-business ledger with statement import and goal tracking",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tally.yaml", "path to config file")

	rootCmd.AddCommand(
		newInitCommand(),
		newMigrateCommand(&configPath),
		newServeCommand(&configPath),
		newImportCommand(&configPath),
		newExportCommand(&configPath),
		newGoalsCommand(&configPath),
	)

	return rootCmd
}
