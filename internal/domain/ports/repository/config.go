package repository

import (
	"context"

	"systems-console/internal/domain/model"
)

// ConfigRepository is the read port for configuration files and their revisions.
type ConfigRepository interface {
	FindFileByID(ctx context.Context, tx Tx, id int64) (*model.ConfigFile, error)
	FindRevisionByID(ctx context.Context, tx Tx, id int64) (*model.ConfigRevision, error)
}
