package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/google/uuid"
)

// AddWeight inserts a weight measurement.
func (s *SQLiteStorage) AddWeight(ctx context.Context, weight *model.WeightEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWeight(weight); err != nil {
		return err
	}

	if weight.ID == "" {
		weight.ID = uuid.NewString()
	}
	if weight.CreatedAt.IsZero() {
		weight.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weights (id, date, weight, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		weight.ID, weight.Date, weight.Weight, weight.Notes, formatTime(weight.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert weight: %w", err)
	}
	return nil
}

// GetWeights returns measurements ordered by date.
func (s *SQLiteStorage) GetWeights(ctx context.Context, filter service.EntryFilter) ([]model.WeightEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args := dateClause(`SELECT id, date, weight, notes, created_at FROM weights WHERE 1=1`, nil, filter)
	query += " ORDER BY date, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var weights []model.WeightEntry
	for rows.Next() {
		var w model.WeightEntry
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Date, &w.Weight, &w.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan weight: %w", err)
		}
		w.CreatedAt = parseTime(createdAt)
		weights = append(weights, w)
	}

	return weights, rows.Err()
}

// DeleteWeight removes a measurement.
func (s *SQLiteStorage) DeleteWeight(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM weights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete weight: %w", err)
	}
	return requireAffected(result, "weight", id)
}
