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

var _ repository.ConfigRepository = (*configRepoCacheDecorator)(nil)

// configRepoCacheDecorator caches revisions, which never change once written.
// File rows are always read through since their latest revision moves.
type configRepoCacheDecorator struct {
	inner repository.ConfigRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewConfigRepoCacheDecorator(inner repository.ConfigRepository, cache red.RedisClient, ttl time.Duration, log *zerolog.Logger) repository.ConfigRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &configRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func revisionCacheKey(id int64) string { return fmt.Sprintf("config_revision:%d", id) }

func (d *configRepoCacheDecorator) FindFileByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigFile, error) {
	return d.inner.FindFileByID(ctx, tx, id)
}

func (d *configRepoCacheDecorator) FindRevisionByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigRevision, error) {
	if tx != nil {
		return d.inner.FindRevisionByID(ctx, tx, id)
	}

	key := revisionCacheKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var rev model.ConfigRevision
		if json.Unmarshal([]byte(val), &rev) == nil {
			metrics.IncCacheRequest("config_revision", "hit")
			return &rev, nil
		}
	} else if !errors.Is(err, red.Nil) {
		metrics.IncCacheError("config_revision")
		d.log.Warn().Err(err).Str("key", key).Msg("revision cache read failed")
	}

	metrics.IncCacheRequest("config_revision", "miss")
	rev, err := d.inner.FindRevisionByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(rev); err == nil {
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			metrics.IncCacheError("config_revision")
		}
	}
	return rev, nil
}
