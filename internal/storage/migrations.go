package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS entries (
					id TEXT PRIMARY KEY,
					date TEXT NOT NULL,
					time TEXT NOT NULL DEFAULT '',
					meal_name TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					calories REAL NOT NULL DEFAULT 0,
					protein REAL NOT NULL DEFAULT 0,
					carbs REAL NOT NULL DEFAULT 0,
					fat REAL NOT NULL DEFAULT 0,
					source TEXT NOT NULL DEFAULT 'manual',
					created_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_entries_date ON entries(date)`,

				`CREATE TABLE IF NOT EXISTS weights (
					id TEXT PRIMARY KEY,
					date TEXT NOT NULL,
					weight REAL NOT NULL,
					notes TEXT NOT NULL DEFAULT '',
					created_at TEXT NOT NULL
				)`,
				`CREATE INDEX idx_weights_date ON weights(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add targets",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS targets (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				calories REAL NOT NULL DEFAULT 0,
				protein REAL NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
