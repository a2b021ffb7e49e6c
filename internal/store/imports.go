package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tallybook/tally/internal/model"
)

// CreateImportRun records a finished import.
func (s *Store) CreateImportRun(ctx context.Context, run *model.ImportRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("recording import run: %w", err)
	}
	return nil
}

// ListImportRuns returns the user's import runs, newest first.
func (s *Store) ListImportRuns(ctx context.Context, userID uuid.UUID) ([]model.ImportRun, error) {
	var runs []model.ImportRun
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("started_at desc").Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing import runs: %w", err)
	}
	return runs, nil
}
