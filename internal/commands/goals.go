package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/ledger"
)

func newGoalsCommand(configPath *string) *cobra.Command {
	goalsCmd := &cobra.Command{
		Use:   "goals",
		Short: "Goal operations",
	}
	goalsCmd.AddCommand(
		newGoalsAddCommand(configPath),
		newGoalsListCommand(configPath),
		newGoalsReconcileCommand(configPath),
	)
	return goalsCmd
}

func newGoalsAddCommand(configPath *string) *cobra.Command {
	var who actorFlags
	var target, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := who.actor()
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(target)
			if err != nil {
				return fmt.Errorf("invalid --target %q: %w", target, err)
			}
			e, err := openEnv(cmd, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			g, err := e.svc.CreateGoal(cmd.Context(), actor, ledger.GoalParams{Name: args[0], TargetAmount: amount, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.ID)
			return nil
		},
	}

	who.register(cmd)
	cmd.Flags().StringVar(&target, "target", "", "target amount (required)")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newGoalsListCommand(configPath *string) *cobra.Command {
	var who actorFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's goals",
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

			goals, err := e.svc.ListGoals(cmd.Context(), actor)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCURRENT\tTARGET\tPROGRESS")
			for _, g := range goals {
				pct := g.Progress().Mul(decimal.NewFromInt(100)).StringFixed(0)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n", g.ID, g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), pct)
			}
			return tw.Flush()
		},
	}

	who.register(cmd)
	return cmd
}

func newGoalsReconcileCommand(configPath *string) *cobra.Command {
	var who actorFlags

	cmd := &cobra.Command{
		Use:   "reconcile <goal-id>",
		Short: "Recompute a goal's progress from its linked transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := who.actor()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid goal id %q: %w", args[0], err)
			}
			e, err := openEnv(cmd, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.svc.ReconcileGoal(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Drift.IsZero() {
				fmt.Fprintf(out, "%s: %s across %d transactions, no drift\n", res.Goal.Name, res.Actual.StringFixed(2), res.Linked)
				return nil
			}
			fmt.Fprintf(out, "%s: repaired %s -> %s across %d transactions\n", res.Goal.Name, res.Previous.StringFixed(2), res.Actual.StringFixed(2), res.Linked)
			return nil
		},
	}

	who.register(cmd)
	return cmd
}
