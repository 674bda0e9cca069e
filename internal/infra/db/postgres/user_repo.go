package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	var err error
	if u.ID == 0 {
		const q = `
INSERT INTO users (org_id, login, roles, disabled, created_at, updated_at)
VALUES ($1,$2,$3,$4,now(),now())
RETURNING id, created_at, updated_at;`
		err = pickRow(ctx, r.pool, tx, q, u.OrgID, u.Login, roles, u.Disabled).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	} else {
		const q = `
UPDATE users SET login=$2, roles=$3, disabled=$4, updated_at=now()
 WHERE id=$1
RETURNING updated_at;`
		err = pickRow(ctx, r.pool, tx, q, u.ID, u.Login, roles, u.Disabled).Scan(&u.UpdatedAt)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Login, domain.ErrAlreadyExists)
		}
		return notFound(err)
	}
	return nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	const q = `
SELECT id, org_id, login, roles, disabled, created_at, updated_at
  FROM users WHERE id=$1;`
	var u model.User
	row := pickRow(ctx, r.pool, tx, q, id)
	if err := row.Scan(&u.ID, &u.OrgID, &u.Login, &u.Roles, &u.Disabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
