package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tallybook/tally/internal/model"
)

// CreateGoal inserts g.
func (s *Store) CreateGoal(ctx context.Context, g *model.Goal) error {
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}
	return nil
}

// GetGoal loads a goal by id.
func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	var g model.Goal
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// ListGoals returns the user's goals, oldest first.
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	var goals []model.Goal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return goals, nil
}

// UpdateGoalDetails writes the user-editable goal columns. CurrentAmount is
// never touched here.
func (s *Store) UpdateGoalDetails(ctx context.Context, g *model.Goal) error {
	err := s.db.WithContext(ctx).Model(g).
		Select("name", "target_amount", "deadline", "color").
		Updates(g).Error
	if err != nil {
		return fmt.Errorf("updating goal %s: %w", g.ID, err)
	}
	return nil
}

// DeleteGoal removes a goal by id.
func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Goal{})
	if res.Error != nil {
		return fmt.Errorf("deleting goal %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustGoal adds delta to the goal's current amount in a single statement.
// It reports false when the goal does not exist. The sum is rounded to cents
// in SQL since SQLite evaluates it in floating point.
func (s *Store) AdjustGoal(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ?", id).
		Update("current_amount", gorm.Expr("ROUND(current_amount + ?, 2)", delta))
	if res.Error != nil {
		return false, fmt.Errorf("adjusting goal %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetGoalAmount overwrites the goal's current amount.
func (s *Store) SetGoalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&model.Goal{}).Where("id = ?", id).Update("current_amount", amount)
	if res.Error != nil {
		return fmt.Errorf("setting goal %s amount: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumLinkedAmount totals the amounts of every transaction linked to the goal.
func (s *Store) SumLinkedAmount(ctx context.Context, goalID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.NullDecimal
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("ROUND(SUM(amount), 2) AS total, COUNT(*) AS count").
		Where("goal_id = ?", goalID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("summing goal %s: %w", goalID, err)
	}
	if !row.Total.Valid {
		return decimal.Zero, row.Count, nil
	}
	return row.Total.Decimal.Round(2), row.Count, nil
}

// UnlinkGoal clears the goal link of every transaction pointing at the goal.
func (s *Store) UnlinkGoal(ctx context.Context, goalID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("goal_id = ?", goalID).
		Update("goal_id", nil)
	if res.Error != nil {
		return 0, fmt.Errorf("unlinking goal %s: %w", goalID, res.Error)
	}
	return res.RowsAffected, nil
}
