package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/macro-log/internal/model"
)

// GetTargets returns the stored targets, or zero targets when none were set.
func (s *SQLiteStorage) GetTargets(ctx context.Context) (*model.Targets, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var targets model.Targets
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT calories, protein, updated_at FROM targets WHERE id = 1`).
		Scan(&targets.Calories, &targets.Protein, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Targets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}

	targets.UpdatedAt = parseTime(updatedAt)
	return &targets, nil
}

// SetTargets replaces the targets row.
func (s *SQLiteStorage) SetTargets(ctx context.Context, targets *model.Targets) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if targets == nil {
		return fmt.Errorf("%w: targets", ErrNilParameter)
	}

	targets.UpdatedAt = s.now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO targets (id, calories, protein, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			calories = excluded.calories,
			protein = excluded.protein,
			updated_at = excluded.updated_at`,
		targets.Calories, targets.Protein, formatTime(targets.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save targets: %w", err)
	}
	return nil
}
