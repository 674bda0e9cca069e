//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/adapter"
	"systems-console/internal/domain/ports/repository"
)

// =============================
// Repositories
// =============================

// ---- In-memory ActivationKeyRepository ----

type MockActivationKeyRepo struct {
	mu     sync.Mutex
	byID   map[int64]*model.ActivationKey
	nextID int64
	Saves  int

	SaveFunc     func(ctx context.Context, tx repository.Tx, k *model.ActivationKey) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.ActivationKey, error)
}

var _ repository.ActivationKeyRepository = (*MockActivationKeyRepo)(nil)

func NewMockActivationKeyRepo() *MockActivationKeyRepo {
	return &MockActivationKeyRepo{byID: map[int64]*model.ActivationKey{}, nextID: 100}
}

func cloneKey(k *model.ActivationKey) *model.ActivationKey {
	cp := *k
	cp.Channels = append([]*model.Channel(nil), k.Channels...)
	cp.Entitlements = append([]string(nil), k.Entitlements...)
	return &cp
}

func (r *MockActivationKeyRepo) Seed(k *model.ActivationKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[k.ID] = cloneKey(k)
}

// Stored returns the persisted copy of key id, or nil.
func (r *MockActivationKeyRepo) Stored(id int64) *model.ActivationKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.byID[id]; ok {
		return cloneKey(k)
	}
	return nil
}

func (r *MockActivationKeyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.ActivationKey, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.byID[id]; ok {
		return cloneKey(k), nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockActivationKeyRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.ActivationKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.byID {
		if k.Key == key {
			return cloneKey(k), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockActivationKeyRepo) Save(ctx context.Context, tx repository.Tx, k *model.ActivationKey) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, k)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if k.ID == 0 {
		r.nextID++
		k.ID = r.nextID
	}
	r.Saves++
	r.byID[k.ID] = cloneKey(k)
	return nil
}

func (r *MockActivationKeyRepo) ClearOrgDefault(ctx context.Context, tx repository.Tx, orgID, exceptID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, k := range r.byID {
		if k.OrgID == orgID && id != exceptID {
			k.OrgDefault = false
		}
	}
	return nil
}

// ---- In-memory ChannelRepository ----

type MockChannelRepo struct {
	mu   sync.Mutex
	byID map[int64]*model.Channel
}

var _ repository.ChannelRepository = (*MockChannelRepo)(nil)

func NewMockChannelRepo(chs ...*model.Channel) *MockChannelRepo {
	r := &MockChannelRepo{byID: map[int64]*model.Channel{}}
	for _, c := range chs {
		r.byID[c.ID] = c
	}
	return r
}

func (r *MockChannelRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockChannelRepo) ListVisible(ctx context.Context, tx repository.Tx, orgID int64) ([]*model.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Channel
	for _, c := range r.byID {
		if c.VisibleTo(orgID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ---- In-memory ContactMethodRepository ----

type MockContactMethodRepo struct {
	methods []*model.ContactMethod
}

var _ repository.ContactMethodRepository = (*MockContactMethodRepo)(nil)

func NewMockContactMethodRepo() *MockContactMethodRepo {
	return &MockContactMethodRepo{methods: []*model.ContactMethod{
		{ID: 1, Label: model.DefaultContactMethodLabel, Name: "Default"},
		{ID: 2, Label: "ssh-push", Name: "Push via SSH"},
	}}
}

func (r *MockContactMethodRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.ContactMethod, error) {
	for _, m := range r.methods {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockContactMethodRepo) FindByLabel(ctx context.Context, tx repository.Tx, label string) (*model.ContactMethod, error) {
	for _, m := range r.methods {
		if m.Label == label {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockContactMethodRepo) List(ctx context.Context, tx repository.Tx) ([]*model.ContactMethod, error) {
	return r.methods, nil
}

// ---- In-memory OrgRepository ----

type MockOrgRepo struct {
	byID map[int64]*model.Org
}

var _ repository.OrgRepository = (*MockOrgRepo)(nil)

func NewMockOrgRepo(orgs ...*model.Org) *MockOrgRepo {
	r := &MockOrgRepo{byID: map[int64]*model.Org{}}
	for _, o := range orgs {
		r.byID[o.ID] = o
	}
	return r
}

func (r *MockOrgRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Org, error) {
	if o, ok := r.byID[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

// ---- In-memory UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	byID  map[int64]*model.User
	Saves int

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo(users ...*model.User) *MockUserRepo {
	r := &MockUserRepo{byID: map[int64]*model.User{}}
	for _, u := range users {
		cp := *u
		r.byID[u.ID] = &cp
	}
	return r
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saves++
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// ---- In-memory ConfigRepository ----

type MockConfigRepo struct {
	files     map[int64]*model.ConfigFile
	revisions map[int64]*model.ConfigRevision
}

var _ repository.ConfigRepository = (*MockConfigRepo)(nil)

func NewMockConfigRepo() *MockConfigRepo {
	return &MockConfigRepo{files: map[int64]*model.ConfigFile{}, revisions: map[int64]*model.ConfigRevision{}}
}

func (r *MockConfigRepo) AddFile(f *model.ConfigFile)           { r.files[f.ID] = f }
func (r *MockConfigRepo) AddRevision(rev *model.ConfigRevision) { r.revisions[rev.ID] = rev }

func (r *MockConfigRepo) FindFileByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigFile, error) {
	if f, ok := r.files[id]; ok {
		return f, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockConfigRepo) FindRevisionByID(ctx context.Context, tx repository.Tx, id int64) (*model.ConfigRevision, error) {
	if rev, ok := r.revisions[id]; ok {
		return rev, nil
	}
	return nil, domain.ErrNotFound
}

// =============================
// Adapters
// =============================

// ---- Counting RateLimiter ----

type MockRateLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	Err    error
}

var _ adapter.RateLimiter = (*MockRateLimiter)(nil)

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{counts: map[string]int{}}
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key] <= limit, nil
}

// ---- Transaction manager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc overrides it.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
