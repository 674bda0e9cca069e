package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/metrics"
	red "systems-console/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator serves the per-request session user lookups from redis.
// Reads inside a transaction bypass the cache. Entries live for a short ttl so edits made
// outside the console reach authentication quickly.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration, log *zerolog.Logger) repository.UserRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &userRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func userCacheKey(id int64) string { return fmt.Sprintf("user:id:%d", id) }

// Save writes through and drops the cached copy once the write is visible. Inside WithTx the
// invalidation waits for the commit, so a concurrent read cannot re-cache the old row.
func (d *userRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if err := d.inner.Save(ctx, tx, u); err != nil {
		return err
	}
	AfterCommit(ctx, func(ctx context.Context) {
		if err := d.cache.Del(ctx, userCacheKey(u.ID)); err != nil {
			metrics.IncCacheError("user")
			d.log.Warn().Err(err).Int64("user_id", u.ID).Msg("user cache invalidation failed")
		}
	})
	return nil
}

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}

	key := userCacheKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &user, nil
		}
	} else if !errors.Is(err, red.Nil) {
		metrics.IncCacheError("user")
	}

	metrics.IncCacheRequest("user", "miss")
	user, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(user); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return user, nil
}
