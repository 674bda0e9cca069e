package repository

import (
	"context"

	"systems-console/internal/domain/model"
)

// ActivationKeyRepository is the port for activation keys and their channel/entitlement sets.
type ActivationKeyRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.ActivationKey, error)
	// FindByKey returns domain.ErrNotFound when no key carries the given string.
	FindByKey(ctx context.Context, tx Tx, key string) (*model.ActivationKey, error)
	// Save inserts the key when ID is zero and updates it otherwise. The channel and
	// entitlement sets are replaced with the ones on k.
	Save(ctx context.Context, tx Tx, k *model.ActivationKey) error
	// ClearOrgDefault drops the org-default flag from every key of orgID except exceptID.
	ClearOrgDefault(ctx context.Context, tx Tx, orgID, exceptID int64) error
}
