//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/usecase"
)

func TestUserUseCase_EnableSetup(t *testing.T) {
	ctx := context.Background()
	admin := &model.User{ID: 1, OrgID: 1, Login: "admin", Roles: []string{model.RoleOrgAdmin}}

	t.Run("warns when the user is not disabled", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 1, Login: "<bob>"})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		res, err := uc.EnableSetup(ctx, admin, 2)
		if err != nil {
			t.Fatalf("EnableSetup failed: %v", err)
		}
		if res.Target.ID != 2 {
			t.Errorf("expected target 2, got %d", res.Target.ID)
		}
		if len(res.Warnings) != 1 || res.Warnings[0].Key != domain.MsgUserNotDisabled {
			t.Fatalf("expected not-disabled warning, got %+v", res.Warnings)
		}
		if got := res.Warnings[0].Args[0]; got != "&lt;bob&gt;" {
			t.Errorf("expected escaped login, got %v", got)
		}
		if users.Saves != 0 {
			t.Errorf("setup must not save, got %d saves", users.Saves)
		}
	})

	t.Run("disabled user gets no warning", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 1, Login: "bob", Disabled: true})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		res, err := uc.EnableSetup(ctx, admin, 2)
		if err != nil {
			t.Fatalf("EnableSetup failed: %v", err)
		}
		if len(res.Warnings) != 0 {
			t.Errorf("unexpected warnings %+v", res.Warnings)
		}
	})

	t.Run("permission is checked before any lookup", func(t *testing.T) {
		users := NewMockUserRepo()
		users.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
			t.Fatal("lookup must not happen for non-admins")
			return nil, nil
		}
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())
		keyAdmin := &model.User{ID: 3, OrgID: 1, Login: "keys", Roles: []string{model.RoleActivationKeyAdmin}}

		_, err := uc.EnableSetup(ctx, keyAdmin, 2)
		var perr *domain.PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
		if perr.Title != domain.MsgPermEnableUserTitle || perr.Summary != domain.MsgPermEnableUserSummary {
			t.Errorf("unexpected permission error %+v", perr)
		}
	})

	t.Run("user of another org is not found", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 9, Login: "stranger", Disabled: true})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		if _, err := uc.EnableSetup(ctx, admin, 2); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserUseCase_Enable(t *testing.T) {
	ctx := context.Background()
	admin := &model.User{ID: 1, OrgID: 1, Login: "admin", Roles: []string{model.RoleOrgAdmin}}

	t.Run("enables a disabled user", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 1, Login: "bob", Disabled: true})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		res, err := uc.Enable(ctx, admin, 2)
		if err != nil {
			t.Fatalf("Enable failed: %v", err)
		}
		if len(res.Messages) != 1 || res.Messages[0].Key != domain.MsgUserEnabled {
			t.Errorf("expected success message, got %+v", res.Messages)
		}
		stored, _ := users.FindByID(ctx, repository.NoTX, 2)
		if stored.Disabled {
			t.Error("expected user to be enabled")
		}
	})

	t.Run("active user is left untouched", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 1, Login: "bob"})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		res, err := uc.Enable(ctx, admin, 2)
		if err != nil {
			t.Fatalf("Enable failed: %v", err)
		}
		if len(res.Warnings) != 1 || len(res.Messages) != 0 {
			t.Errorf("expected a warning only, got %+v", res)
		}
		if users.Saves != 0 {
			t.Errorf("expected no save, got %d", users.Saves)
		}
	})

	t.Run("non admin is rejected", func(t *testing.T) {
		users := NewMockUserRepo(&model.User{ID: 2, OrgID: 1, Login: "bob", Disabled: true})
		uc := usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())

		_, err := uc.Enable(ctx, &model.User{ID: 3, OrgID: 1, Login: "x"}, 2)
		var perr *domain.PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
		stored, _ := users.FindByID(ctx, repository.NoTX, 2)
		if !stored.Disabled {
			t.Error("user must stay disabled")
		}
	})
}
