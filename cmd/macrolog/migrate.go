package main

import (
	"fmt"

	"github.com/Veraticus/macro-log/internal/cli"
	"github.com/Veraticus/macro-log/internal/config"
	"github.com/Veraticus/macro-log/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the local SQLite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storageCfg, err := config.LoadStorageConfig()
			if err != nil {
				return err
			}

			store, err := openSQLite(cmd.Context(), storageCfg.SQLitePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Database %s is at schema version %d", storageCfg.SQLitePath, storage.ExpectedSchemaVersion)))
			return err
		},
	}
}
