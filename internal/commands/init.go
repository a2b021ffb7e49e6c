package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/categorize"
	"github.com/tallybook/tally/internal/config"
)

const (
	configFile = "tally.yaml"
	rulesFile  = "rules.yaml"
	importDir  = "import"
)

func newInitCommand() *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, driver, dsn)
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "sqlite", "database driver (sqlite, postgres, mysql)")
	cmd.Flags().StringVar(&dsn, "dsn", "tally.db", "database connection string")

	return cmd
}

func runInit(out io.Writer, dir, driver, dsn string) error {
	cfgPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	for _, d := range []string{importDir, filepath.Join(importDir, "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Database.Driver = driver
	cfg.Database.DSN = dsn
	cfg.Rules.Path = rulesFile
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := categorize.SaveRuleBook(filepath.Join(dir, rulesFile), categorize.DefaultRuleBook()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := "*.db\n" + importDir + "/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally workspace at %s\n", dir)
	return nil
}
