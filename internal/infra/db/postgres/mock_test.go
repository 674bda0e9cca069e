//go:build !integration

package postgres

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	red "systems-console/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerConfigRepo mocks the database repository that the config decorator wraps.
type mockInnerConfigRepo struct {
	FindFileByIDFunc     func(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigFile, error)
	FindRevisionByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigRevision, error)
}

func (m *mockInnerConfigRepo) FindFileByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigFile, error) {
	return m.FindFileByIDFunc(ctx, tx, id)
}
func (m *mockInnerConfigRepo) FindRevisionByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigRevision, error) {
	return m.FindRevisionByIDFunc(ctx, tx, id)
}

// mockInnerUserRepo mocks the database repository that the user decorator wraps.
type mockInnerUserRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.User, error)
}

func (m *mockInnerUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.SaveFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	return m.FindByIDFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper. Unset funcs behave like an empty cache.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", red.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error                      { return nil }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}
func (m *mockRedisClient) Close() error { return nil }

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
