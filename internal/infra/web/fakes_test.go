//go:build !integration

package web

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"systems-console/internal/config"
	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/i18n"
	"systems-console/internal/usecase"
)

// ---- use case fakes ----

type fakeKeys struct {
	SetupFunc  func(ctx context.Context, actor *model.User) (*usecase.KeySetup, error)
	GetFunc    func(ctx context.Context, actor *model.User, id int64) (*model.ActivationKey, error)
	CreateFunc func(ctx context.Context, actor *model.User, in usecase.KeyInput) (*usecase.KeyResult, error)
	UpdateFunc func(ctx context.Context, actor *model.User, id int64, in usecase.KeyInput) (*usecase.KeyResult, error)
}

var _ usecase.ActivationKeyUseCase = (*fakeKeys)(nil)

func (f *fakeKeys) Setup(ctx context.Context, actor *model.User) (*usecase.KeySetup, error) {
	if f.SetupFunc != nil {
		return f.SetupFunc(ctx, actor)
	}
	return testSetup(), nil
}

func (f *fakeKeys) Get(ctx context.Context, actor *model.User, id int64) (*model.ActivationKey, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, actor, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeKeys) Create(ctx context.Context, actor *model.User, in usecase.KeyInput) (*usecase.KeyResult, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, actor, in)
	}
	panic("unexpected Create")
}

func (f *fakeKeys) Update(ctx context.Context, actor *model.User, id int64, in usecase.KeyInput) (*usecase.KeyResult, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, actor, id, in)
	}
	panic("unexpected Update")
}

type fakeUsers struct {
	EnableSetupFunc func(ctx context.Context, actor *model.User, uid int64) (*usecase.EnableResult, error)
	EnableFunc      func(ctx context.Context, actor *model.User, uid int64) (*usecase.EnableResult, error)
}

var _ usecase.UserUseCase = (*fakeUsers)(nil)

func (f *fakeUsers) LookupUser(ctx context.Context, actor *model.User, uid int64) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) EnableSetup(ctx context.Context, actor *model.User, uid int64) (*usecase.EnableResult, error) {
	return f.EnableSetupFunc(ctx, actor, uid)
}

func (f *fakeUsers) Enable(ctx context.Context, actor *model.User, uid int64) (*usecase.EnableResult, error) {
	return f.EnableFunc(ctx, actor, uid)
}

type fakeConfigs struct {
	DownloadFunc func(ctx context.Context, actor *model.User, fileID, revisionID int64) (*usecase.Download, error)
}

var _ usecase.ConfigUseCase = (*fakeConfigs)(nil)

func (f *fakeConfigs) Download(ctx context.Context, actor *model.User, fileID, revisionID int64) (*usecase.Download, error) {
	return f.DownloadFunc(ctx, actor, fileID, revisionID)
}

// ---- session user store ----

type fakeUserRepo struct {
	users map[int64]*model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

// ---- fixtures ----

var (
	orgAdmin  = &model.User{ID: 1, OrgID: 1, Login: "admin", Roles: []string{model.RoleOrgAdmin}}
	keyAdmin  = &model.User{ID: 2, OrgID: 1, Login: "keys", Roles: []string{model.RoleActivationKeyAdmin}}
	plainUser = &model.User{ID: 3, OrgID: 1, Login: "plain"}
	disabled  = &model.User{ID: 4, OrgID: 1, Login: "gone", Roles: []string{model.RoleOrgAdmin}, Disabled: true}
)

func testSetup() *usecase.KeySetup {
	parent := int64(10)
	return &usecase.KeySetup{
		Prefix:           "1-",
		BlankDescription: model.DefaultDescription,
		Entitlements: []model.Entitlement{
			{Label: "monitoring_entitled", HumanReadableLabel: "Monitoring", AddOn: true},
		},
		ContactMethods: []*model.ContactMethod{{ID: 1, Label: "default", Name: "Default"}},
		Channels: []*model.Channel{
			{ID: 10, Label: "base", Name: "Base"},
			{ID: 11, Label: "tools", Name: "Tools", ParentID: &parent},
		},
	}
}

type testEnv struct {
	keys    *fakeKeys
	users   *fakeUsers
	configs *fakeConfigs
	auth    *AuthManager
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	env := &testEnv{
		keys:    &fakeKeys{},
		users:   &fakeUsers{},
		configs: &fakeConfigs{},
		auth:    NewAuthManager(config.AuthConfig{Secret: "test-secret", TTL: time.Hour}),
	}
	repo := &fakeUserRepo{users: map[int64]*model.User{}}
	for _, u := range []*model.User{orgAdmin, keyAdmin, plainUser, disabled} {
		cp := *u
		repo.users[u.ID] = &cp
	}
	srv := NewServer(env.keys, env.users, env.configs, repo, env.auth, tr, 5*time.Second, &logger)
	env.handler = srv.Routes()
	return env
}

// authorize attaches a bearer session token for u.
func (e *testEnv) authorize(t *testing.T, req *http.Request, u *model.User) {
	t.Helper()
	tok, err := e.auth.Token(u)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
}
