package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/importer"
	"github.com/tallybook/tally/internal/ledger"
)

func newImportCommand(configPath *string) *cobra.Command {
	var who actorFlags
	var move bool

	cmd := &cobra.Command{
		Use:   "import <file-or-dir>...",
		Short: "Import OFX/QFX bank statements",
		Long: "Import statement files. A directory argument imports every statement in it;\n" +
			"with --move, imported files are moved to its processed/ subdirectory.",
		Args: cobra.MinimumNArgs(1),
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

			return runImport(cmd, e, actor, args, move)
		},
	}

	who.register(cmd)
	cmd.Flags().BoolVar(&move, "move", false, "move imported files from a directory to processed/")

	return cmd
}

func runImport(cmd *cobra.Command, e *env, actor ledger.Actor, args []string, move bool) error {
	out := cmd.OutOrStdout()
	var total ledger.Summary
	failed := 0

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			sum, err := importFile(cmd, e, actor, arg)
			if err != nil {
				return err
			}
			printSummary(out, filepath.Base(arg), sum)
			addSummary(&total, sum)
			continue
		}

		files, err := importer.Scan(arg, e.svc.Registry())
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(out, "%s: no statements found\n", arg)
		}
		for _, f := range files {
			sum, err := importFile(cmd, e, actor, f.Path)
			if errors.Is(err, ledger.ErrNoTransactions) {
				fmt.Fprintf(out, "%s: %v\n", f.Name, err)
				failed++
				continue
			}
			if err != nil {
				return err
			}
			printSummary(out, f.Name, sum)
			addSummary(&total, sum)
			if move {
				if err := importer.MarkProcessed(arg, f.Name); err != nil {
					return err
				}
			}
		}
	}

	if len(args) > 1 || failed > 0 {
		fmt.Fprintf(out, "Total: %d found, %d imported, %d duplicates", total.TotalFound, total.Imported, total.Duplicates)
		if failed > 0 {
			fmt.Fprintf(out, ", %d files skipped", failed)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func importFile(cmd *cobra.Command, e *env, actor ledger.Actor, path string) (ledger.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return e.svc.Import(cmd.Context(), actor, filepath.Base(path), f)
}

func printSummary(out io.Writer, name string, s ledger.Summary) {
	fmt.Fprintf(out, "%s: %d found, %d imported, %d duplicates\n", name, s.TotalFound, s.Imported, s.Duplicates)
}

func addSummary(total *ledger.Summary, s ledger.Summary) {
	total.TotalFound += s.TotalFound
	total.Imported += s.Imported
	total.Duplicates += s.Duplicates
}
