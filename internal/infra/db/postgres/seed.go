package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
)

//go:embed seed.sql
var seedSQL string

// SeedDemo inserts an example org with add-on entitlements, a vendor base channel with one
// child and an org admin named adminLogin. Rows that already exist are left untouched, so
// seeding twice returns the same admin.
func SeedDemo(ctx context.Context, pool *pgxpool.Pool, adminLogin string) (*model.User, error) {
	var admin *model.User
	err := NewTxManager(pool).WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ex, err := getExecutor(pool, tx)
		if err != nil {
			return err
		}
		if _, err := ex.Exec(ctx, seedSQL); err != nil {
			return fmt.Errorf("seed reference data: %w", err)
		}

		var orgID int64
		if err := ex.QueryRow(ctx, `SELECT id FROM orgs WHERE name='Example Org';`).Scan(&orgID); err != nil {
			return fmt.Errorf("seed org: %w", err)
		}

		var id int64
		err = ex.QueryRow(ctx, `
INSERT INTO users (org_id, login, roles) VALUES ($1, $2, $3)
ON CONFLICT (login) DO UPDATE SET login=EXCLUDED.login
RETURNING id;`, orgID, adminLogin, []string{model.RoleOrgAdmin}).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed admin %q: %w", adminLogin, err)
		}
		admin, err = NewUserRepo(pool).FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}
