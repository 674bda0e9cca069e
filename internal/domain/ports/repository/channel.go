package repository

import (
	"context"

	"systems-console/internal/domain/model"
)

type ChannelRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Channel, error)
	// ListVisible returns vendor channels plus the channels owned by orgID.
	ListVisible(ctx context.Context, tx Tx, orgID int64) ([]*model.Channel, error)
}

type ContactMethodRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.ContactMethod, error)
	FindByLabel(ctx context.Context, tx Tx, label string) (*model.ContactMethod, error)
	List(ctx context.Context, tx Tx) ([]*model.ContactMethod, error)
}
