package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
)

var (
	_ repository.ChannelRepository       = (*PostgresChannelRepo)(nil)
	_ repository.ContactMethodRepository = (*PostgresContactMethodRepo)(nil)
)

type PostgresChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *PostgresChannelRepo {
	return &PostgresChannelRepo{pool: pool}
}

func scanChannel(row pgx.Row) (*model.Channel, error) {
	var c model.Channel
	if err := row.Scan(&c.ID, &c.OrgID, &c.Label, &c.Name, &c.ParentID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresChannelRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Channel, error) {
	c, err := scanChannel(pickRow(ctx, r.pool, tx, `SELECT id, org_id, label, name, parent_id FROM channels WHERE id=$1;`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListVisible orders base channels before their children so callers can build a tree in one pass.
func (r *PostgresChannelRepo) ListVisible(ctx context.Context, tx repository.Tx, orgID int64) ([]*model.Channel, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `
SELECT id, org_id, label, name, parent_id
  FROM channels
 WHERE org_id IS NULL OR org_id=$1
 ORDER BY COALESCE(parent_id, id), parent_id NULLS FIRST, name;`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []*model.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type PostgresContactMethodRepo struct {
	pool *pgxpool.Pool
}

func NewContactMethodRepo(pool *pgxpool.Pool) *PostgresContactMethodRepo {
	return &PostgresContactMethodRepo{pool: pool}
}

func (r *PostgresContactMethodRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.ContactMethod, error) {
	var m model.ContactMethod
	row := pickRow(ctx, r.pool, tx, `SELECT id, label, name FROM contact_methods WHERE id=$1;`, id)
	if err := row.Scan(&m.ID, &m.Label, &m.Name); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *PostgresContactMethodRepo) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ContactMethod, error) {
	var m model.ContactMethod
	row := pickRow(ctx, r.pool, tx, `SELECT id, label, name FROM contact_methods WHERE label=$1;`, label)
	if err := row.Scan(&m.ID, &m.Label, &m.Name); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *PostgresContactMethodRepo) List(ctx context.Context, tx repository.Tx) ([]*model.ContactMethod, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT id, label, name FROM contact_methods ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list contact methods: %w", err)
	}
	defer rows.Close()

	var out []*model.ContactMethod
	for rows.Next() {
		var m model.ContactMethod
		if err := rows.Scan(&m.ID, &m.Label, &m.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
