// Package testutil provides shared fixtures for tests that need a real store.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/storage"
)

// TestDB is a migrated in-memory SQLite store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with entries in
// order. It is closed when the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewLog("2024-03-01").
//		Meal("Oatmeal", 300, 10, 50, 5).
//		Meal("Chicken Salad", 450, 40, 12, 22).
//		Entries()...)
func SetupTestDB(t *testing.T, entries ...model.Entry) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range entries {
		if err := store.AddEntry(ctx, &entries[i]); err != nil {
			t.Fatalf("failed to seed entry %q: %v", entries[i].MealName, err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// MustEntries returns every stored entry or fails the test.
func (db *TestDB) MustEntries() []model.Entry {
	db.t.Helper()
	entries, err := db.Storage.GetEntries(context.Background(), service.EntryFilter{})
	if err != nil {
		db.t.Fatalf("failed to read entries: %v", err)
	}
	return entries
}
