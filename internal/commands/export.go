package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/ledger"
)

func newExportCommand(configPath *string) *cobra.Command {
	var who actorFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := who.actor()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return runExport(cmd, e, actor, w)
		},
	}

	who.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, e *env, actor ledger.Actor, w io.Writer) error {
	ctx := cmd.Context()
	txs, err := e.svc.ListTransactions(ctx, actor, ledger.ListParams{})
	if err != nil {
		return err
	}
	cats, err := e.svc.ListCategories(ctx, "")
	if err != nil {
		return err
	}
	goals, err := e.svc.ListGoals(ctx, actor)
	if err != nil {
		return err
	}
	return export.WriteTransactions(w, txs, export.NewNames(cats, goals))
}
