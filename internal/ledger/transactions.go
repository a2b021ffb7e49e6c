package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/categorize"
	"github.com/tallybook/tally/internal/model"
	"github.com/tallybook/tally/internal/plan"
	"github.com/tallybook/tally/internal/store"
)

// CreateParams holds the fields of a manually entered transaction.
//
// CategoryID wins over CategoryName; a CategoryName that is empty or "Other"
// lets the category be inferred.
type CreateParams struct {
	Amount       decimal.Decimal
	Type         model.TransactionType
	Date         time.Time
	Description  string
	CategoryID   *uuid.UUID
	CategoryName string
	GoalID       *uuid.UUID
	IsRecurring  bool
	Source       string
}

// GoalChange sets or clears a transaction's goal link. A nil ID unlinks.
type GoalChange struct {
	ID *uuid.UUID
}

// UpdateParams holds transaction fields to change; nil fields are left alone.
// A CategoryName of "" or "Other" clears the category.
type UpdateParams struct {
	Amount       *decimal.Decimal
	Type         *model.TransactionType
	Date         *time.Time
	Description  *string
	CategoryID   *uuid.UUID
	CategoryName *string
	Goal         *GoalChange
	IsRecurring  *bool
}

// ListParams filters ListTransactions.
type ListParams struct {
	From       *time.Time
	To         *time.Time
	Type       model.TransactionType
	CategoryID *uuid.UUID
	GoalID     *uuid.UUID
	Limit      int
	Offset     int
}

// CreateTransaction validates and stores a transaction, inferring its category
// when none was given, and credits its goal.
func (s *Service) CreateTransaction(ctx context.Context, actor Actor, p CreateParams) (*model.Transaction, error) {
	t := &model.Transaction{
		UserID:      actor.UserID,
		Amount:      p.Amount,
		Type:        p.Type,
		Date:        p.Date,
		Description: strings.TrimSpace(p.Description),
		Source:      p.Source,
		GoalID:      p.GoalID,
		IsRecurring: p.IsRecurring,
	}
	if t.Source == "" {
		t.Source = model.SourceClient
	}
	if errs := validateTransaction(t); len(errs) > 0 {
		return nil, errs
	}
	if t.IsRecurring {
		if err := requirePlan(s.gate, actor.Tier, plan.Recurring); err != nil {
			return nil, err
		}
	}

	err := s.store.Tx(ctx, func(st *store.Store) error {
		if err := s.checkGoalLink(ctx, st, actor, t.GoalID); err != nil {
			return err
		}
		catID, err := s.resolveCategory(ctx, st, actor, t, p.CategoryID, p.CategoryName)
		if err != nil {
			return err
		}
		t.CategoryID = catID
		if err := st.CreateTransaction(ctx, t); err != nil {
			return err
		}
		return s.applyAdjustments(ctx, st, t.ID, planAdjustments(nil, t))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTransaction changes a transaction owned by actor and moves goal
// progress to match, all in one database transaction.
func (s *Service) UpdateTransaction(ctx context.Context, actor Actor, id uuid.UUID, p UpdateParams) (*model.Transaction, error) {
	var out *model.Transaction
	err := s.store.Tx(ctx, func(st *store.Store) error {
		before, err := ownedTransaction(ctx, st, actor, id)
		if err != nil {
			return err
		}
		after := *before

		if p.Amount != nil {
			after.Amount = *p.Amount
		}
		if p.Type != nil {
			after.Type = *p.Type
		}
		if p.Date != nil {
			after.Date = *p.Date
		}
		if p.Description != nil {
			after.Description = strings.TrimSpace(*p.Description)
		}
		if p.IsRecurring != nil {
			after.IsRecurring = *p.IsRecurring
		}
		if errs := validateTransaction(&after); len(errs) > 0 {
			return errs
		}
		if after.IsRecurring && !before.IsRecurring {
			if err := requirePlan(s.gate, actor.Tier, plan.Recurring); err != nil {
				return err
			}
		}

		if p.Goal != nil {
			if !sameGoal(before.GoalID, p.Goal.ID) {
				if err := s.checkGoalLink(ctx, st, actor, p.Goal.ID); err != nil {
					return err
				}
			}
			after.GoalID = p.Goal.ID
		}

		switch {
		case p.CategoryID != nil:
			if err := checkCategory(ctx, st, *p.CategoryID); err != nil {
				return err
			}
			after.CategoryID = p.CategoryID
		case p.CategoryName != nil && categorize.IsPlaceholder(*p.CategoryName):
			after.CategoryID = nil
		case p.CategoryName != nil:
			cat, err := st.FindOrCreateCategory(ctx, strings.TrimSpace(*p.CategoryName), after.Type)
			if err != nil {
				return err
			}
			after.CategoryID = &cat.ID
		}

		if err := st.SaveTransaction(ctx, &after); err != nil {
			return err
		}
		if err := s.applyAdjustments(ctx, st, id, planAdjustments(before, &after)); err != nil {
			return err
		}
		out = &after
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction removes a transaction owned by actor and takes its amount
// back off its goal.
func (s *Service) DeleteTransaction(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Tx(ctx, func(st *store.Store) error {
		before, err := ownedTransaction(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if err := st.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		return s.applyAdjustments(ctx, st, id, planAdjustments(before, nil))
	})
}

// GetTransaction returns a transaction owned by actor.
func (s *Service) GetTransaction(ctx context.Context, actor Actor, id uuid.UUID) (*model.Transaction, error) {
	return ownedTransaction(ctx, s.store, actor, id)
}

// ListTransactions returns the actor's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, actor Actor, p ListParams) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, store.TransactionFilter{
		UserID:     actor.UserID,
		From:       p.From,
		To:         p.To,
		Type:       p.Type,
		CategoryID: p.CategoryID,
		GoalID:     p.GoalID,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
}

// ListCategories returns the global categories, optionally of one type.
func (s *Service) ListCategories(ctx context.Context, typ model.TransactionType) ([]model.Category, error) {
	return s.store.ListCategories(ctx, typ)
}

func ownedTransaction(ctx context.Context, st *store.Store, actor Actor, id uuid.UUID) (*model.Transaction, error) {
	t, err := st.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction %s: %w", id, err)
	}
	if t.UserID != actor.UserID {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrForbidden)
	}
	return t, nil
}

// checkGoalLink rejects linking to a goal owned by someone else. A goal that
// does not exist is allowed; its adjustment is skipped later.
func (s *Service) checkGoalLink(ctx context.Context, st *store.Store, actor Actor, goalID *uuid.UUID) error {
	if goalID == nil {
		return nil
	}
	g, err := st.GetGoal(ctx, *goalID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger(ctx).Warn().Str("goal_id", goalID.String()).Msg("linking transaction to unknown goal")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading goal %s: %w", goalID, err)
	}
	if g.UserID != actor.UserID {
		return fmt.Errorf("goal %s: %w", goalID, ErrForbidden)
	}
	return nil
}

func checkCategory(ctx context.Context, st *store.Store, id uuid.UUID) error {
	_, err := st.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ValidationErrors{{Field: "categoryId", Message: fmt.Sprintf("unknown category %s", id)}}
	}
	return err
}

// resolveCategory applies the caller's explicit category or falls back to
// inference with the tables the actor's plan allows.
func (s *Service) resolveCategory(ctx context.Context, st *store.Store, actor Actor, t *model.Transaction, id *uuid.UUID, name string) (*uuid.UUID, error) {
	if id != nil {
		if err := checkCategory(ctx, st, *id); err != nil {
			return nil, err
		}
		return id, nil
	}
	if !categorize.IsPlaceholder(name) {
		cat, err := st.FindOrCreateCategory(ctx, strings.TrimSpace(name), t.Type)
		if err != nil {
			return nil, err
		}
		return &cat.ID, nil
	}
	smart := s.gate.Allows(actor.Tier, plan.SmartCategories)
	res, err := s.engine(st).ForManual(ctx, actor.UserID, t.Description, t.Type, smart)
	if err != nil {
		return nil, err
	}
	return res.CategoryID, nil
}
