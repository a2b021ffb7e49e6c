package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/model"
	"github.com/tallybook/tally/internal/store"
)

// GoalParams holds the fields of a new goal.
type GoalParams struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	Color        string
}

// GoalUpdate holds goal fields to change; nil fields are left alone.
// ClearDeadline removes the deadline.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
	Color         *string
}

// CreateGoal creates a goal with no progress.
func (s *Service) CreateGoal(ctx context.Context, actor Actor, p GoalParams) (*model.Goal, error) {
	g := &model.Goal{
		UserID:        actor.UserID,
		Name:          p.Name,
		TargetAmount:  p.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      p.Deadline,
		Color:         p.Color,
	}
	if errs := validateGoal(g); len(errs) > 0 {
		return nil, errs
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetGoal returns one of the actor's goals.
func (s *Service) GetGoal(ctx context.Context, actor Actor, id uuid.UUID) (*model.Goal, error) {
	return ownedGoal(ctx, s.store, actor, id)
}

// ListGoals returns the actor's goals.
func (s *Service) ListGoals(ctx context.Context, actor Actor) ([]model.Goal, error) {
	return s.store.ListGoals(ctx, actor.UserID)
}

// UpdateGoal changes a goal's descriptive fields. The current amount only ever
// moves through transaction writes or ReconcileGoal.
func (s *Service) UpdateGoal(ctx context.Context, actor Actor, id uuid.UUID, u GoalUpdate) (*model.Goal, error) {
	var out *model.Goal
	err := s.store.Tx(ctx, func(st *store.Store) error {
		g, err := ownedGoal(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if u.Name != nil {
			g.Name = *u.Name
		}
		if u.TargetAmount != nil {
			g.TargetAmount = *u.TargetAmount
		}
		if u.ClearDeadline {
			g.Deadline = nil
		} else if u.Deadline != nil {
			g.Deadline = u.Deadline
		}
		if u.Color != nil {
			g.Color = *u.Color
		}
		if errs := validateGoal(g); len(errs) > 0 {
			return errs
		}
		if err := st.UpdateGoalDetails(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteGoal removes a goal and unlinks its transactions.
func (s *Service) DeleteGoal(ctx context.Context, actor Actor, id uuid.UUID) error {
	var unlinked int64
	err := s.store.Tx(ctx, func(st *store.Store) error {
		if _, err := ownedGoal(ctx, st, actor, id); err != nil {
			return err
		}
		n, err := st.UnlinkGoal(ctx, id)
		if err != nil {
			return err
		}
		unlinked = n
		return st.DeleteGoal(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger(ctx).Info().Str("goal_id", id.String()).Int64("unlinked", unlinked).Msg("goal deleted")
	return nil
}
