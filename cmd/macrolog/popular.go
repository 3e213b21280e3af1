package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/macro-log/internal/cli"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/suggest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func popularCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most frequently logged meals",
		Long: `Group similarly named meals and list the most frequent ones with their
average calories and macros.`,
		RunE: runPopular,
	}

	cmd.Flags().Int("limit", 0, "number of meals to show (default from suggestions.limit, else 5)")
	cmd.Flags().String("start", "", "only consider entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "only consider entries on or before this date (YYYY-MM-DD)")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")

	return cmd
}

func runPopular(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	asJSON, _ := cmd.Flags().GetBool("json")

	if limit <= 0 {
		limit = viper.GetInt("suggestions.limit")
	}
	if limit <= 0 {
		limit = 5
	}
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := model.ParseDate(d); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", d)
		}
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.GetEntries(cmd.Context(), service.EntryFilter{StartDate: start, EndDate: end})
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	suggestions := suggest.MostPopularMeals(entries, limit)
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}
	return cli.RenderSuggestions(cmd.OutOrStdout(), suggestions)
}
