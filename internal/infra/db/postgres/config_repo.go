package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
)

var _ repository.ConfigRepository = (*PostgresConfigRepo)(nil)

type PostgresConfigRepo struct {
	pool *pgxpool.Pool
}

func NewConfigRepo(pool *pgxpool.Pool) *PostgresConfigRepo {
	return &PostgresConfigRepo{pool: pool}
}

func (r *PostgresConfigRepo) FindFileByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigFile, error) {
	const q = `
SELECT id, org_id, channel_label, path, latest_revision_id, created_at
  FROM config_files WHERE id=$1;`
	var f model.ConfigFile
	row := pickRow(ctx, r.pool, tx, q, id)
	if err := row.Scan(&f.ID, &f.OrgID, &f.ChannelLabel, &f.Path, &f.LatestRevisionID, &f.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *PostgresConfigRepo) FindRevisionByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigRevision, error) {
	const q = `
SELECT id, config_file_id, revision, contents, is_binary, created_at
  FROM config_revisions WHERE id=$1;`
	var rev model.ConfigRevision
	row := pickRow(ctx, r.pool, tx, q, id)
	if err := row.Scan(&rev.ID, &rev.ConfigFileID, &rev.Revision, &rev.Content.Contents, &rev.Content.Binary, &rev.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &rev, nil
}
