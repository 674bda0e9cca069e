package usecase

import (
	"context"
	"fmt"
	"html"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// EnableResult is the target of an enable request and the messages to show with it.
type EnableResult struct {
	Target   *model.User
	Warnings []domain.Message
	Messages []domain.Message
}

// UserUseCase exposes the user administration flows of the console.
type UserUseCase interface {
	// LookupUser loads a user of actor's org. Users of other orgs are reported as not found.
	LookupUser(ctx context.Context, actor *model.User, uid int64) (*model.User, error)
	// EnableSetup prepares the enable confirmation page. It never mutates the user.
	EnableSetup(ctx context.Context, actor *model.User, uid int64) (*EnableResult, error)
	// Enable re-activates a disabled user.
	Enable(ctx context.Context, actor *model.User, uid int64) (*EnableResult, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{
		users: users,
		tm:    tm,
		log:   logger,
	}
}

func (u *userUC) LookupUser(ctx context.Context, actor *model.User, uid int64) (*model.User, error) {
	return u.lookup(ctx, repository.NoTX, actor, uid)
}

func (u *userUC) lookup(ctx context.Context, tx repository.Tx, actor *model.User, uid int64) (*model.User, error) {
	target, err := u.users.FindByID(ctx, tx, uid)
	if err != nil {
		return nil, err
	}
	if target.OrgID != actor.OrgID {
		return nil, domain.ErrNotFound
	}
	return target, nil
}

func (u *userUC) EnableSetup(ctx context.Context, actor *model.User, uid int64) (*EnableResult, error) {
	defer logging.TraceDuration(u.log, "UserUC.EnableSetup")()
	if err := RequireOrgAdmin(actor); err != nil {
		return nil, err
	}

	target, err := u.lookup(ctx, repository.NoTX, actor, uid)
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", uid, err)
	}
	res := &EnableResult{Target: target}
	if !target.Disabled {
		res.Warnings = append(res.Warnings, notDisabledWarning(target))
	}
	return res, nil
}

func (u *userUC) Enable(ctx context.Context, actor *model.User, uid int64) (*EnableResult, error) {
	defer logging.TraceDuration(u.log, "UserUC.Enable")()
	if err := RequireOrgAdmin(actor); err != nil {
		return nil, err
	}

	var res *EnableResult
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		target, err := u.lookup(ctx, tx, actor, uid)
		if err != nil {
			return fmt.Errorf("lookup user %d: %w", uid, err)
		}
		res = &EnableResult{Target: target}
		if !target.Enable() {
			res.Warnings = append(res.Warnings, notDisabledWarning(target))
			return nil
		}
		if err := u.users.Save(ctx, tx, target); err != nil {
			return fmt.Errorf("save user %d: %w", uid, err)
		}
		res.Messages = append(res.Messages, domain.NewMessage(domain.MsgUserEnabled, html.EscapeString(target.Login)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Messages) > 0 {
		logging.With(ctx, u.log).Info().Int64("target_id", uid).Msg("user enabled")
	}
	return res, nil
}

func notDisabledWarning(target *model.User) domain.Message {
	return domain.NewMessage(domain.MsgUserNotDisabled, html.EscapeString(target.Login))
}
