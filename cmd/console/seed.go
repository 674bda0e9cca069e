package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"systems-console/internal/infra/db/postgres"
	"systems-console/internal/infra/web"
)

var seedAdmin string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed an example org and print a session token for its admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pool, err := postgres.NewPgxPool(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		admin, err := postgres.SeedDemo(cmd.Context(), pool, seedAdmin)
		if err != nil {
			return err
		}
		tok, err := web.NewAuthManager(cfg.Auth).Token(admin)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "seeded org %d, admin %q (id=%d)\n", admin.OrgID, admin.Login, admin.ID)
		fmt.Fprintln(out, tok)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdmin, "admin", "admin", "login of the seeded org admin")
}
