package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/macro-log/internal/cli"
	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/config"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the local SQLite log into the spreadsheet",
		Long: `Copy entries, weights and targets from the local SQLite database into the
configured Google spreadsheet. Rows whose ID is already in the spreadsheet are
skipped, so the command can be rerun after an interruption.`,
		RunE: runExport,
	}

	cmd.Flags().String("from", "", "SQLite database to read (default storage.sqlite_path)")
	cmd.Flags().String("start", "", "only export entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "only export entries on or before this date (YYYY-MM-DD)")

	return cmd
}

// exportResult counts what an export wrote.
type exportResult struct {
	Entries int
	Weights int
	Skipped int
}

func runExport(cmd *cobra.Command, _ []string) error {
	from, _ := cmd.Flags().GetString("from")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	if from == "" {
		storageCfg, err := config.LoadStorageConfig()
		if err != nil {
			return err
		}
		from = storageCfg.SQLitePath
	}

	interrupts := cli.NewInterruptHandler(cmd.OutOrStdout(), "Export")
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	src, err := openSQLite(ctx, config.ExpandPath(from))
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := openSheets(ctx)
	if err != nil {
		return err
	}

	result, err := exportLog(ctx, src, dst, service.EntryFilter{StartDate: start, EndDate: end}, cmd.OutOrStdout())
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		common.LogError(err, "export failed", common.Fields{
			"entries": result.Entries,
			"weights": result.Weights,
		})
		return err
	}
	common.LogInfo("export finished", common.Fields{
		"entries": result.Entries,
		"weights": result.Weights,
		"skipped": result.Skipped,
	})

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Exported %d entries and %d weights (%d already present)",
		result.Entries, result.Weights, result.Skipped)))
	return err
}

// exportLog copies everything in src that dst does not already have.
func exportLog(ctx context.Context, src, dst service.Storage, filter service.EntryFilter, out io.Writer) (exportResult, error) {
	var result exportResult

	entries, err := src.GetEntries(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("failed to read entries: %w", err)
	}
	weights, err := src.GetWeights(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("failed to read weights: %w", err)
	}

	existingEntries, err := dst.GetEntries(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("failed to read spreadsheet entries: %w", err)
	}
	haveEntry := make(map[string]bool, len(existingEntries))
	for _, e := range existingEntries {
		haveEntry[e.ID] = true
	}

	existingWeights, err := dst.GetWeights(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("failed to read spreadsheet weights: %w", err)
	}
	haveWeight := make(map[string]bool, len(existingWeights))
	for _, w := range existingWeights {
		haveWeight[w.ID] = true
	}

	bar := progressbar.NewOptions(len(entries)+len(weights),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(out)
		}),
	)

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if haveEntry[entries[i].ID] {
			common.LogDebug("entry already exported", common.Fields{"id": entries[i].ID})
			result.Skipped++
		} else {
			if err := dst.AddEntry(ctx, &entries[i]); err != nil {
				return result, fmt.Errorf("failed to export entry %s: %w", entries[i].ID, err)
			}
			result.Entries++
		}
		_ = bar.Add(1)
	}

	for i := range weights {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if haveWeight[weights[i].ID] {
			result.Skipped++
		} else {
			if err := dst.AddWeight(ctx, &weights[i]); err != nil {
				return result, fmt.Errorf("failed to export weight %s: %w", weights[i].ID, err)
			}
			result.Weights++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	targets, err := src.GetTargets(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read targets: %w", err)
	}
	if targets.Calories > 0 || targets.Protein > 0 {
		if err := dst.SetTargets(ctx, targets); err != nil {
			return result, fmt.Errorf("failed to export targets: %w", err)
		}
	}
	return result, nil
}
