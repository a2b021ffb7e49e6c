package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/model"
	"github.com/tallybook/tally/internal/store"
)

// adjustment is a signed change to one goal's current amount.
type adjustment struct {
	GoalID uuid.UUID
	Delta  decimal.Decimal
}

// planAdjustments derives the goal changes implied by moving a transaction from
// before to after. A nil before is a create and a nil after is a delete.
//
// When the goal link is unchanged only the amount difference is applied. When
// it changes, the old goal loses the whole old amount and the new goal gains
// the whole new amount. Every linked transaction counts positively whatever its
// type. Zero deltas are omitted.
func planAdjustments(before, after *model.Transaction) []adjustment {
	var (
		oldGoal, newGoal *uuid.UUID
		oldAmt, newAmt   = decimal.Zero, decimal.Zero
	)
	if before != nil {
		oldGoal, oldAmt = before.GoalID, before.Amount
	}
	if after != nil {
		newGoal, newAmt = after.GoalID, after.Amount
	}

	if sameGoal(oldGoal, newGoal) {
		if newGoal == nil {
			return nil
		}
		d := newAmt.Sub(oldAmt)
		if d.IsZero() {
			return nil
		}
		return []adjustment{{GoalID: *newGoal, Delta: d}}
	}

	var out []adjustment
	if oldGoal != nil && !oldAmt.IsZero() {
		out = append(out, adjustment{GoalID: *oldGoal, Delta: oldAmt.Neg()})
	}
	if newGoal != nil && !newAmt.IsZero() {
		out = append(out, adjustment{GoalID: *newGoal, Delta: newAmt})
	}
	return out
}

func sameGoal(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// applyAdjustments runs each adjustment as an atomic increment through st.
// Goals that no longer exist are skipped.
func (s *Service) applyAdjustments(ctx context.Context, st *store.Store, txID uuid.UUID, adjs []adjustment) error {
	for _, a := range adjs {
		applied, err := st.AdjustGoal(ctx, a.GoalID, a.Delta)
		if err != nil {
			return err
		}
		if !applied {
			s.logger(ctx).Warn().
				Str("goal_id", a.GoalID.String()).
				Str("transaction_id", txID.String()).
				Str("delta", a.Delta.String()).
				Msg("goal not found, adjustment skipped")
		}
	}
	return nil
}

// ReconcileResult reports what ReconcileGoal found.
type ReconcileResult struct {
	Goal     *model.Goal     `json:"goal"`
	Previous decimal.Decimal `json:"previous"`
	Actual   decimal.Decimal `json:"actual"`
	Drift    decimal.Decimal `json:"drift"`
	Linked   int64           `json:"linked"`
}

// ReconcileGoal recomputes a goal's current amount from its linked
// transactions and stores it when it drifted.
func (s *Service) ReconcileGoal(ctx context.Context, actor Actor, goalID uuid.UUID) (*ReconcileResult, error) {
	var res ReconcileResult
	err := s.store.Tx(ctx, func(st *store.Store) error {
		g, err := ownedGoal(ctx, st, actor, goalID)
		if err != nil {
			return err
		}
		total, linked, err := st.SumLinkedAmount(ctx, goalID)
		if err != nil {
			return err
		}
		res = ReconcileResult{
			Previous: g.CurrentAmount,
			Actual:   total,
			Drift:    g.CurrentAmount.Sub(total),
			Linked:   linked,
		}
		if !res.Drift.IsZero() {
			if err := st.SetGoalAmount(ctx, goalID, total); err != nil {
				return err
			}
			g.CurrentAmount = total
		}
		res.Goal = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.Drift.IsZero() {
		s.logger(ctx).Info().
			Str("goal_id", goalID.String()).
			Str("previous", res.Previous.String()).
			Str("actual", res.Actual.String()).
			Msg("goal amount repaired")
	}
	return &res, nil
}

// ownedGoal loads a goal and checks that actor owns it.
func ownedGoal(ctx context.Context, st *store.Store, actor Actor, id uuid.UUID) (*model.Goal, error) {
	g, err := st.GetGoal(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading goal %s: %w", id, err)
	}
	if g.UserID != actor.UserID {
		return nil, fmt.Errorf("goal %s: %w", id, ErrForbidden)
	}
	return g, nil
}
