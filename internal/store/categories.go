package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tallybook/tally/internal/model"
)

// FindOrCreateCategory returns the category identified by (name, typ),
// creating it when missing. Concurrent creators converge on one row.
func (s *Store) FindOrCreateCategory(ctx context.Context, name string, typ model.TransactionType) (model.Category, error) {
	db := s.db.WithContext(ctx)

	var cat model.Category
	err := db.Where("name = ? AND type = ?", name, typ).Take(&cat).Error
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, fmt.Errorf("finding category %q: %w", name, err)
	}

	create := model.Category{Name: name, Type: typ}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&create).Error; err != nil {
		return model.Category{}, fmt.Errorf("creating category %q: %w", name, err)
	}
	if err := db.Where("name = ? AND type = ?", name, typ).Take(&cat).Error; err != nil {
		return model.Category{}, fmt.Errorf("reloading category %q: %w", name, err)
	}
	return cat, nil
}

// GetCategory loads a category by id.
func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var cat model.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&cat).Error; err != nil {
		return nil, notFound(err)
	}
	return &cat, nil
}

// ListCategories returns categories ordered by type and name. An empty typ
// lists both kinds.
func (s *Store) ListCategories(ctx context.Context, typ model.TransactionType) ([]model.Category, error) {
	q := s.db.WithContext(ctx)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var cats []model.Category
	if err := q.Order("type, name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}
