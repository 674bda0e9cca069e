package main

import (
	"github.com/spf13/cobra"

	"systems-console/internal/infra/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		pool, err := postgres.NewPgxPool(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		logger.Info().Msg("schema applied")
		return nil
	},
}
