package main

import (
	"fmt"

	"github.com/2beens/fittrack/internal/storage"

	"github.com/spf13/cobra"
)

func migrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the stored data to the current layout",
		Long: `Bring the stored data to the current layout.

CSV: adds the rpe column to the session history and gives every meal of a
log written before meals had ids a fresh id (malformed rows are dropped).
SQLite: creates the missing tables.

Running it again does nothing. The service runs it on every start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			stores, err := storage.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			if err := stores.Migrate(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s storage in %s is up to date\n", stores.Backend(), cfg.DataDir)
			return err
		},
	}
}
