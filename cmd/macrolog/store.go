package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/macro-log/internal/config"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/sheets"
	"github.com/Veraticus/macro-log/internal/storage"
)

// openStore opens the configured backend, creating tabs or tables as needed.
func openStore(ctx context.Context) (service.Storage, error) {
	cfg, err := config.LoadStorageConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	default:
		return openSheets(ctx)
	}
}

func openSQLite(ctx context.Context, path string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Debug("using sqlite store", "path", path)
	return store, nil
}

func openSheets(ctx context.Context) (*sheets.Store, error) {
	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, err
	}

	store, err := sheets.NewStore(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return nil, err
	}
	if err := store.EnsureTabs(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare spreadsheet: %w", err)
	}
	slog.Debug("using sheets store", "spreadsheet_id", sheetsCfg.SpreadsheetID)
	return store, nil
}
