package repository

import (
	"context"

	"systems-console/internal/domain/model"
)

// OrgRepository loads organizations together with their valid add-on entitlements.
type OrgRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Org, error)
}
