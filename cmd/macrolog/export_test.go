package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLog(t *testing.T) {
	ctx := context.Background()
	src := storage.NewMockStorage(
		model.Entry{ID: "a", Date: "2024-03-01", MealName: "Oatmeal"},
		model.Entry{ID: "b", Date: "2024-03-02", MealName: "Burrito"},
	)
	require.NoError(t, src.AddWeight(ctx, &model.WeightEntry{ID: "w1", Date: "2024-03-01", Weight: 80}))
	require.NoError(t, src.SetTargets(ctx, &model.Targets{Calories: 2000, Protein: 140}))

	dst := storage.NewMockStorage(model.Entry{ID: "a", Date: "2024-03-01", MealName: "Oatmeal"})

	result, err := exportLog(ctx, src, dst, service.EntryFilter{}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, exportResult{Entries: 1, Weights: 1, Skipped: 1}, result)

	entries, err := dst.GetEntries(ctx, service.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	targets, err := dst.GetTargets(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2000, targets.Calories, 1e-9)

	result, err = exportLog(ctx, src, dst, service.EntryFilter{}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, exportResult{Skipped: 3}, result)
}

func TestExportLog_DestinationError(t *testing.T) {
	ctx := context.Background()
	src := storage.NewMockStorage(model.Entry{ID: "a", Date: "2024-03-01", MealName: "Oatmeal"})
	dst := storage.NewMockStorage()
	dst.Err = assert.AnError

	_, err := exportLog(ctx, src, dst, service.EntryFilter{}, io.Discard)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExportLog_ReadsDestinationOnce(t *testing.T) {
	ctx := context.Background()
	var entries []model.Entry
	for i := range 200 {
		entries = append(entries, model.Entry{ID: fmt.Sprintf("e%03d", i), Date: "2024-03-01", MealName: "Oatmeal"})
	}
	src := storage.NewMockStorage(entries...)
	dst := storage.NewMockStorage(entries[:50]...)

	result, err := exportLog(ctx, src, dst, service.EntryFilter{}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, exportResult{Entries: 150, Skipped: 50}, result)

	counts := make(map[string]int)
	for _, c := range dst.Calls() {
		counts[c]++
	}
	assert.Equal(t, 1, counts["GetEntries"])
	assert.Equal(t, 1, counts["GetWeights"])
	assert.Zero(t, counts["GetEntry"])
	assert.Equal(t, 150, counts["AddEntry"])
}

func TestExportLog_LeavesSummaryToCaller(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	src := storage.NewMockStorage(model.Entry{ID: "a", Date: "2024-03-01", MealName: "Oatmeal"})
	_, err := exportLog(context.Background(), src, storage.NewMockStorage(), service.EntryFilter{}, io.Discard)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "export finished")
}
