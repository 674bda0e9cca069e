package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/db/postgres"
	"systems-console/internal/infra/web"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Print a session token for a console user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("user id %q: %w", args[0], err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pool, err := postgres.NewPgxPool(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		u, err := postgres.NewUserRepo(pool).FindByID(cmd.Context(), repository.NoTX, uid)
		if err != nil {
			return fmt.Errorf("load user %d: %w", uid, err)
		}
		if u.Disabled {
			return fmt.Errorf("user %d is disabled", uid)
		}
		tok, err := web.NewAuthManager(cfg.Auth).Token(u)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}
