package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// Ensure Store implements the Storage interface.
var _ service.Storage = (*Store)(nil)

// Store implements service.Storage on top of a single Google spreadsheet.
type Store struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

// NewStore creates a store backed by the configured spreadsheet.
func NewStore(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewStoreWithService(srv, config, logger), nil
}

// NewStoreWithService wraps an already constructed Sheets service.
func NewStoreWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		service: srv,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// Close is a no-op; the Sheets client holds no resources that need releasing.
func (s *Store) Close() error {
	return nil
}

// EnsureTabs creates any missing tab and writes its header row.
func (s *Store) EnsureTabs(ctx context.Context) error {
	ids, err := s.sheetIDs(ctx)
	if err != nil {
		return err
	}

	var requests []*sheets.Request
	var missing []tab
	for _, t := range allTabs {
		if _, ok := ids[t.name]; ok {
			continue
		}
		missing = append(missing, t)
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: t.name},
			},
		})
	}

	if len(requests) == 0 {
		return nil
	}

	err = s.retry(ctx, func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create tabs: %w", err)
	}

	for _, t := range missing {
		if err := s.writeRow(ctx, t.headerRange(), t.header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", t.name, err)
		}
		s.logger.Info("created spreadsheet tab", "tab", t.name)
	}

	return nil
}

// AddEntry appends a meal entry, assigning an ID and creation time when missing.
func (s *Store) AddEntry(ctx context.Context, entry *model.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if err := s.appendRow(ctx, entriesTab, entryToRow(*entry)); err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	s.logger.Debug("added entry", "id", entry.ID, "meal", entry.MealName)
	return nil
}

// GetEntries returns entries in sheet order, which is the order they were logged.
func (s *Store) GetEntries(ctx context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	rows, err := s.readRows(ctx, entriesTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	entries := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		entry := rowToEntry(row)
		if entry.ID == "" && entry.MealName == "" {
			continue
		}
		if !filter.Matches(entry.Date) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetEntry returns a single entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	rows, err := s.readRows(ctx, entriesTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	idx := findRow(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}

	entry := rowToEntry(rows[idx])
	return &entry, nil
}

// UpdateEntry overwrites the row holding entry.ID.
func (s *Store) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	rows, err := s.readRows(ctx, entriesTab)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	idx := findRow(rows, entry.ID)
	if idx < 0 {
		return fmt.Errorf("entry %s: %w", entry.ID, common.ErrNotFound)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = rowToEntry(rows[idx]).CreatedAt
	}

	if err := s.writeRow(ctx, entriesTab.rowRange(idx+2), entryToRow(*entry)); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// DeleteEntry removes the row holding id.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entriesTab, id)
}

// AddWeight appends a weight measurement.
func (s *Store) AddWeight(ctx context.Context, weight *model.WeightEntry) error {
	if weight.ID == "" {
		weight.ID = uuid.NewString()
	}
	if weight.CreatedAt.IsZero() {
		weight.CreatedAt = s.now().UTC()
	}

	if err := s.appendRow(ctx, weightTab, weightToRow(*weight)); err != nil {
		return fmt.Errorf("failed to add weight: %w", err)
	}
	return nil
}

// GetWeights returns weight measurements sorted by date.
func (s *Store) GetWeights(ctx context.Context, filter service.EntryFilter) ([]model.WeightEntry, error) {
	rows, err := s.readRows(ctx, weightTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights: %w", err)
	}

	weights := make([]model.WeightEntry, 0, len(rows))
	for _, row := range rows {
		w := rowToWeight(row)
		if w.ID == "" || !filter.Matches(w.Date) {
			continue
		}
		weights = append(weights, w)
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Date < weights[j].Date
	})
	return weights, nil
}

// DeleteWeight removes a weight measurement.
func (s *Store) DeleteWeight(ctx context.Context, id string) error {
	return s.deleteByID(ctx, weightTab, id)
}

// GetTargets returns the stored targets, or zero targets when none were set.
func (s *Store) GetTargets(ctx context.Context) (*model.Targets, error) {
	rows, err := s.readRows(ctx, targetsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}

	if len(rows) == 0 {
		return &model.Targets{}, nil
	}

	targets := rowToTargets(rows[0])
	return &targets, nil
}

// SetTargets overwrites the single targets row.
func (s *Store) SetTargets(ctx context.Context, targets *model.Targets) error {
	targets.UpdatedAt = s.now().UTC()
	if err := s.writeRow(ctx, targetsTab.rowRange(2), targetsToRow(*targets)); err != nil {
		return fmt.Errorf("failed to set targets: %w", err)
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, t tab, id string) error {
	rows, err := s.readRows(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.name, err)
	}

	idx := findRow(rows, id)
	if idx < 0 {
		return fmt.Errorf("%s row %s: %w", t.name, id, common.ErrNotFound)
	}

	ids, err := s.sheetIDs(ctx)
	if err != nil {
		return err
	}
	sheetID, ok := ids[t.name]
	if !ok {
		return fmt.Errorf("tab %s: %w", t.name, common.ErrNotFound)
	}

	// Data row idx lives at zero-based grid row idx+1.
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(idx + 1),
						EndIndex:   int64(idx + 2),
					},
				},
			},
		},
	}

	err = s.retry(ctx, func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.config.SpreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", t.name, err)
	}

	s.logger.Debug("deleted row", "tab", t.name, "id", id)
	return nil
}

func (s *Store) readRows(ctx context.Context, t tab) ([][]any, error) {
	var values [][]any
	err := s.retry(ctx, func() error {
		resp, err := s.service.Spreadsheets.Values.Get(s.config.SpreadsheetID, t.dataRange()).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	return values, err
}

func (s *Store) appendRow(ctx context.Context, t tab, row []any) error {
	return s.retry(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Append(s.config.SpreadsheetID, t.appendRange(), &sheets.ValueRange{
			Values: [][]any{row},
		}).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
}

func (s *Store) writeRow(ctx context.Context, rangeStr string, row []any) error {
	return s.retry(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Update(s.config.SpreadsheetID, rangeStr, &sheets.ValueRange{
			Values: [][]any{row},
		}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
}

func (s *Store) sheetIDs(ctx context.Context) (map[string]int64, error) {
	var spreadsheet *sheets.Spreadsheet
	err := s.retry(ctx, func() error {
		var err error
		spreadsheet, err = s.service.Spreadsheets.Get(s.config.SpreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", s.config.SpreadsheetID, err)
	}

	ids := make(map[string]int64, len(spreadsheet.Sheets))
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties == nil {
			continue
		}
		ids[sh.Properties.Title] = sh.Properties.SheetId
	}
	return ids, nil
}

// retry runs op with backoff. Client errors other than 429 are not retried.
func (s *Store) retry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		err := op()
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
			return common.Permanent(err)
		}
		return err
	}, s.config.retryOptions())
}

func findRow(rows [][]any, id string) int {
	if id == "" {
		return -1
	}
	for i, row := range rows {
		if cellString(row, 0) == id {
			return i
		}
	}
	return -1
}
