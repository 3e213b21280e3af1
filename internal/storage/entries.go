package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/google/uuid"
)

const entryColumns = `id, date, time, meal_name, description, calories, protein, carbs, fat, source, created_at`

// AddEntry inserts a meal entry, assigning an ID and creation time when missing.
func (s *SQLiteStorage) AddEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if entry.Source == "" {
		entry.Source = model.SourceManual
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Date, entry.Time, entry.MealName, entry.Description,
		entry.Calories, entry.Protein, entry.Carbs, entry.Fat,
		string(entry.Source), formatTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// GetEntries returns entries in the order they were logged.
func (s *SQLiteStorage) GetEntries(ctx context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args := dateClause(`SELECT `+entryColumns+` FROM entries WHERE 1=1`, nil, filter)
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetEntry returns a single entry by ID.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry overwrites every field but the creation time.
func (s *SQLiteStorage) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}
	if err := validateString(entry.ID, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE entries
		SET date = ?, time = ?, meal_name = ?, description = ?,
			calories = ?, protein = ?, carbs = ?, fat = ?, source = ?
		WHERE id = ?`,
		entry.Date, entry.Time, entry.MealName, entry.Description,
		entry.Calories, entry.Protein, entry.Carbs, entry.Fat, string(entry.Source),
		entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	return requireAffected(result, "entry", entry.ID)
}

// DeleteEntry removes an entry.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return requireAffected(result, "entry", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var entry model.Entry
	var source, createdAt string
	err := row.Scan(
		&entry.ID, &entry.Date, &entry.Time, &entry.MealName, &entry.Description,
		&entry.Calories, &entry.Protein, &entry.Carbs, &entry.Fat,
		&source, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan entry: %w", err)
	}
	entry.Source = model.EntrySource(source)
	entry.CreatedAt = parseTime(createdAt)
	return entry, nil
}

func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}
