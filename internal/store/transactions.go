package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tallybook/tally/internal/model"
)

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	UserID     uuid.UUID
	From       *time.Time
	To         *time.Time
	Type       model.TransactionType
	CategoryID *uuid.UUID
	GoalID     *uuid.UUID
	Limit      int
	Offset     int
}

// CreateTransaction inserts t. A unique-key violation is reported as ErrDuplicate.
func (s *Store) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("creating transaction: %w", ErrDuplicate)
		}
		return fmt.Errorf("creating transaction: %w", err)
	}
	return nil
}

// GetTransaction loads a transaction by id.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// SaveTransaction writes every column of an existing transaction.
func (s *Store) SaveTransaction(ctx context.Context, t *model.Transaction) error {
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("saving transaction %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTransaction removes a transaction by id.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactions returns the filtered transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.GoalID != nil {
		q = q.Where("goal_id = ?", *f.GoalID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var txs []model.Transaction
	if err := q.Order("date desc, created_at desc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

// ExternalIDExists reports whether the user already has a transaction with
// the given statement id.
func (s *Store) ExternalIDExists(ctx context.Context, userID uuid.UUID, externalID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ? AND external_id = ?", userID, externalID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking external id: %w", err)
	}
	return n > 0, nil
}

// LatestCategoryFor returns the category of the user's most recent categorized
// transaction with exactly this description, or nil when there is none.
func (s *Store) LatestCategoryFor(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
	var t model.Transaction
	err := s.db.WithContext(ctx).
		Select("category_id").
		Where("user_id = ? AND description = ? AND category_id IS NOT NULL", userID, description).
		Order("date desc, created_at desc").
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up category history: %w", err)
	}
	return t.CategoryID, nil
}
