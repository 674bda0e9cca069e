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

var _ repository.ActivationKeyRepository = (*PostgresActivationKeyRepo)(nil)

type PostgresActivationKeyRepo struct {
	pool *pgxpool.Pool
}

func NewActivationKeyRepo(pool *pgxpool.Pool) *PostgresActivationKeyRepo {
	return &PostgresActivationKeyRepo{pool: pool}
}

// orgDefaultIndex allows a single org default key per org.
const orgDefaultIndex = "activation_keys_one_org_default"

const selectKey = `
SELECT k.id, k.key_string, k.note, k.org_id, k.creator_id, k.usage_limit,
       k.org_default, k.deploy_configs, k.created_at, k.updated_at,
       cm.id, cm.label, cm.name,
       bc.id, bc.org_id, bc.label, bc.name, bc.parent_id
  FROM activation_keys k
  JOIN contact_methods cm ON cm.id = k.contact_method_id
  LEFT JOIN channels bc ON bc.id = k.base_channel_id`

func (r *PostgresActivationKeyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.ActivationKey, error) {
	return r.findOne(ctx, tx, selectKey+` WHERE k.id=$1;`, id)
}

func (r *PostgresActivationKeyRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.ActivationKey, error) {
	return r.findOne(ctx, tx, selectKey+` WHERE k.key_string=$1;`, key)
}

func (r *PostgresActivationKeyRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.ActivationKey, error) {
	var (
		k      model.ActivationKey
		baseID *int64
		base   model.Channel
		bLabel *string
		bName  *string
	)
	row := pickRow(ctx, r.pool, tx, q, arg)
	err := row.Scan(
		&k.ID, &k.Key, &k.Note, &k.OrgID, &k.CreatorID, &k.UsageLimit,
		&k.OrgDefault, &k.DeployConfigs, &k.CreatedAt, &k.UpdatedAt,
		&k.ContactMethod.ID, &k.ContactMethod.Label, &k.ContactMethod.Name,
		&baseID, &base.OrgID, &bLabel, &bName, &base.ParentID,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if baseID != nil {
		base.ID = *baseID
		base.Label = deref(bLabel)
		base.Name = deref(bName)
		k.BaseChannel = &base
	}

	if err := r.loadChannels(ctx, tx, &k); err != nil {
		return nil, err
	}
	if err := r.loadEntitlements(ctx, tx, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *PostgresActivationKeyRepo) loadChannels(ctx context.Context, tx repository.Tx, k *model.ActivationKey) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	rows, err := ex.Query(ctx, `
SELECT c.id, c.org_id, c.label, c.name, c.parent_id
  FROM activation_key_channels kc
  JOIN channels c ON c.id = kc.channel_id
 WHERE kc.key_id=$1
 ORDER BY kc.position;`, k.ID)
	if err != nil {
		return fmt.Errorf("query key channels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return err
		}
		if k.BaseChannel != nil && c.ID == k.BaseChannel.ID {
			c = k.BaseChannel
		}
		k.Channels = append(k.Channels, c)
	}
	return rows.Err()
}

func (r *PostgresActivationKeyRepo) loadEntitlements(ctx context.Context, tx repository.Tx, k *model.ActivationKey) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	rows, err := ex.Query(ctx, `SELECT label FROM activation_key_entitlements WHERE key_id=$1 ORDER BY position;`, k.ID)
	if err != nil {
		return fmt.Errorf("query key entitlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		k.Entitlements = append(k.Entitlements, label)
	}
	return rows.Err()
}

// Save writes the key row and replaces its channel and entitlement sets. Without a
// caller transaction it opens its own so the sets never diverge from the row.
func (r *PostgresActivationKeyRepo) Save(ctx context.Context, tx repository.Tx, k *model.ActivationKey) error {
	if tx == nil {
		return NewTxManager(r.pool).WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			return r.Save(ctx, tx, k)
		})
	}
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}

	var baseID *int64
	if k.BaseChannel != nil {
		baseID = &k.BaseChannel.ID
	}

	if k.ID == 0 {
		const q = `
INSERT INTO activation_keys (
  key_string, note, org_id, creator_id, usage_limit, base_channel_id,
  contact_method_id, org_default, deploy_configs
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, created_at, updated_at;`
		err = ex.QueryRow(ctx, q,
			k.Key, k.Note, k.OrgID, k.CreatorID, k.UsageLimit, baseID,
			k.ContactMethod.ID, k.OrgDefault, k.DeployConfigs,
		).Scan(&k.ID, &k.CreatedAt, &k.UpdatedAt)
	} else {
		const q = `
UPDATE activation_keys SET
  key_string=$2, note=$3, usage_limit=$4, base_channel_id=$5,
  contact_method_id=$6, org_default=$7, deploy_configs=$8, updated_at=now()
WHERE id=$1
RETURNING updated_at;`
		err = ex.QueryRow(ctx, q,
			k.ID, k.Key, k.Note, k.UsageLimit, baseID,
			k.ContactMethod.ID, k.OrgDefault, k.DeployConfigs,
		).Scan(&k.UpdatedAt)
	}
	if err != nil {
		if c, ok := uniqueViolation(err); ok {
			if c == orgDefaultIndex {
				return fmt.Errorf("org %d default key: %w", k.OrgID, domain.ErrConflict)
			}
			return fmt.Errorf("activation key %q: %w", k.Key, domain.ErrAlreadyExists)
		}
		return notFound(err)
	}

	if _, err := ex.Exec(ctx, `DELETE FROM activation_key_channels WHERE key_id=$1;`, k.ID); err != nil {
		return fmt.Errorf("clear key channels: %w", err)
	}
	for i, c := range k.Channels {
		if _, err := ex.Exec(ctx, `INSERT INTO activation_key_channels (key_id, channel_id, position) VALUES ($1,$2,$3);`, k.ID, c.ID, i); err != nil {
			return fmt.Errorf("add key channel %d: %w", c.ID, err)
		}
	}

	if _, err := ex.Exec(ctx, `DELETE FROM activation_key_entitlements WHERE key_id=$1;`, k.ID); err != nil {
		return fmt.Errorf("clear key entitlements: %w", err)
	}
	for i, label := range k.Entitlements {
		if _, err := ex.Exec(ctx, `INSERT INTO activation_key_entitlements (key_id, label, position) VALUES ($1,$2,$3);`, k.ID, label, i); err != nil {
			return fmt.Errorf("add key entitlement %q: %w", label, err)
		}
	}
	return nil
}

// ClearOrgDefault drops the org default flag from every key of orgID but exceptID. Inside a
// transaction it first locks the org row, so concurrent default switches of one org queue up
// until the earlier one commits.
func (r *PostgresActivationKeyRepo) ClearOrgDefault(ctx context.Context, tx repository.Tx, orgID, exceptID int64) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	var locked int64
	if err := ex.QueryRow(ctx, `SELECT id FROM orgs WHERE id=$1 FOR UPDATE;`, orgID).Scan(&locked); err != nil {
		return fmt.Errorf("lock org %d: %w", orgID, notFound(err))
	}
	_, err = ex.Exec(ctx, `
UPDATE activation_keys SET org_default=FALSE, updated_at=now()
 WHERE org_id=$1 AND id<>$2 AND org_default;`, orgID, exceptID)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
