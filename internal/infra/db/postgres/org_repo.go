package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
)

var _ repository.OrgRepository = (*PostgresOrgRepo)(nil)

type PostgresOrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *PostgresOrgRepo {
	return &PostgresOrgRepo{pool: pool}
}

func (r *PostgresOrgRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Org, error) {
	var o model.Org
	if err := pickRow(ctx, r.pool, tx, `SELECT id, name FROM orgs WHERE id=$1;`, id).Scan(&o.ID, &o.Name); err != nil {
		return nil, notFound(err)
	}

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `
SELECT e.label, e.name, e.add_on
  FROM org_entitlements oe
  JOIN entitlements e ON e.label = oe.label
 WHERE oe.org_id=$1 AND e.add_on
 ORDER BY oe.position, e.label;`, id)
	if err != nil {
		return nil, fmt.Errorf("query org entitlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Entitlement
		if err := rows.Scan(&e.Label, &e.HumanReadableLabel, &e.AddOn); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		o.ValidAddOnEntitlements = append(o.ValidAddOnEntitlements, e)
	}
	return &o, rows.Err()
}
