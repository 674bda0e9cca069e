package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/logging"
	"systems-console/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ActivationKeyUseCase = (*activationKeyUC)(nil)

// KeyInput is a submitted activation key form after parameter parsing.
type KeyInput struct {
	Key         string
	Description string
	UsageLimit  *int64 // nil: no limit
	// BaseChannelID is nil when nothing was selected; model.NoBaseChannelID selects no base channel.
	BaseChannelID   *int64
	ChildChannelIDs []int64
	Entitlements    []string
	OrgDefault      bool
	DeployConfigs   bool
	ContactMethodID int64
}

// KeyResult is a persisted key plus the user-visible messages describing what happened.
type KeyResult struct {
	Key      *model.ActivationKey
	Messages []domain.Message
}

// KeySetup is the reference data every activation key page needs.
type KeySetup struct {
	Prefix           string
	BlankDescription string
	Entitlements     []model.Entitlement
	ContactMethods   []*model.ContactMethod
	Channels         []*model.Channel
}

// ActivationKeyUseCase creates, edits and looks up activation keys.
type ActivationKeyUseCase interface {
	Setup(ctx context.Context, actor *model.User) (*KeySetup, error)
	Get(ctx context.Context, actor *model.User, id int64) (*model.ActivationKey, error)
	Create(ctx context.Context, actor *model.User, in KeyInput) (*KeyResult, error)
	Update(ctx context.Context, actor *model.User, id int64, in KeyInput) (*KeyResult, error)
}

type activationKeyUC struct {
	keys     repository.ActivationKeyRepository
	channels repository.ChannelRepository
	contacts repository.ContactMethodRepository
	orgs     repository.OrgRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewActivationKeyUseCase(
	keys repository.ActivationKeyRepository,
	channels repository.ChannelRepository,
	contacts repository.ContactMethodRepository,
	orgs repository.OrgRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *activationKeyUC {
	return &activationKeyUC{
		keys:     keys,
		channels: channels,
		contacts: contacts,
		orgs:     orgs,
		tm:       tm,
		log:      logger,
	}
}

func (uc *activationKeyUC) Setup(ctx context.Context, actor *model.User) (*KeySetup, error) {
	defer logging.TraceDuration(uc.log, "ActivationKeyUC.Setup")()
	if err := requireKeyAdmin(actor); err != nil {
		return nil, err
	}

	org, err := uc.orgs.FindByID(ctx, repository.NoTX, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("load org %d: %w", actor.OrgID, err)
	}
	ents := make([]model.Entitlement, len(org.ValidAddOnEntitlements))
	copy(ents, org.ValidAddOnEntitlements)
	model.SortEntitlementsByName(ents)

	contacts, err := uc.contacts.List(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("list contact methods: %w", err)
	}
	channels, err := uc.channels.ListVisible(ctx, repository.NoTX, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	return &KeySetup{
		Prefix:           model.MakePrefix(actor.OrgID),
		BlankDescription: model.DefaultDescription,
		Entitlements:     ents,
		ContactMethods:   contacts,
		Channels:         channels,
	}, nil
}

func (uc *activationKeyUC) Get(ctx context.Context, actor *model.User, id int64) (*model.ActivationKey, error) {
	defer logging.TraceDuration(uc.log, "ActivationKeyUC.Get")()
	if err := requireKeyAdmin(actor); err != nil {
		return nil, err
	}
	return uc.lookup(ctx, repository.NoTX, actor, id)
}

// lookup loads a key of the actor's org. Keys of other orgs are reported as not found.
func (uc *activationKeyUC) lookup(ctx context.Context, tx repository.Tx, actor *model.User, id int64) (*model.ActivationKey, error) {
	key, err := uc.keys.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if key.OrgID != actor.OrgID {
		return nil, domain.ErrNotFound
	}
	return key, nil
}

func (uc *activationKeyUC) Create(ctx context.Context, actor *model.User, in KeyInput) (*KeyResult, error) {
	defer logging.TraceDuration(uc.log, "ActivationKeyUC.Create")()
	if err := requireKeyAdmin(actor); err != nil {
		return nil, err
	}

	var res *KeyResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		org, err := uc.orgs.FindByID(ctx, tx, actor.OrgID)
		if err != nil {
			return fmt.Errorf("load org %d: %w", actor.OrgID, err)
		}
		if err := validateAddOnEntitlements(org, in.Entitlements); err != nil {
			return err
		}
		base, err := uc.lookupChannel(ctx, tx, actor, in.BaseChannelID)
		if err != nil {
			return err
		}

		key, err := uc.newActivationKey(ctx, tx, actor, in.Key, in.Description, in.UsageLimit, base, in.OrgDefault)
		if err != nil {
			return err
		}
		key.DeployConfigs = in.DeployConfigs
		if err := uc.replaceChildChannels(ctx, tx, actor, key, in.ChildChannelIDs); err != nil {
			return err
		}
		if err := uc.applyContactMethod(ctx, tx, key, in.ContactMethodID); err != nil {
			return err
		}
		addEntitlements(key, in.Entitlements)

		if err := uc.save(ctx, tx, key); err != nil {
			return err
		}

		res = &KeyResult{
			Key:      key,
			Messages: []domain.Message{domain.NewMessage(domain.MsgKeyCreated, key.Note)},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncActivationKeyMutation("create")
	logging.With(ctx, uc.log).Info().Int64("key_id", res.Key.ID).Str("key", res.Key.Key).Msg("activation key created")
	return res, nil
}

func (uc *activationKeyUC) Update(ctx context.Context, actor *model.User, id int64, in KeyInput) (*KeyResult, error) {
	defer logging.TraceDuration(uc.log, "ActivationKeyUC.Update")()
	if err := requireKeyAdmin(actor); err != nil {
		return nil, err
	}

	var (
		res     *KeyResult
		renamed bool
	)
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		key, err := uc.lookup(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		org, err := uc.orgs.FindByID(ctx, tx, actor.OrgID)
		if err != nil {
			return fmt.Errorf("load org %d: %w", actor.OrgID, err)
		}

		if err := validateAddOnEntitlements(org, in.Entitlements); err != nil {
			return err
		}
		// Removals go first so the key never holds a stale and a new entitlement at once.
		removeEntitlements(key, org.EntitlementsToRemove(in.Entitlements))
		addEntitlements(key, in.Entitlements)

		key.Note = model.NoteOrDefault(in.Description)

		base, err := uc.lookupChannel(ctx, tx, actor, in.BaseChannelID)
		if err != nil {
			return err
		}
		key.BaseChannel = base
		if err := uc.replaceChildChannels(ctx, tx, actor, key, in.ChildChannelIDs); err != nil {
			return err
		}

		key.OrgDefault = in.OrgDefault
		key.DeployConfigs = in.DeployConfigs
		key.UsageLimit = in.UsageLimit

		if err := uc.applyContactMethod(ctx, tx, key, in.ContactMethodID); err != nil {
			return err
		}

		msgs := []domain.Message{domain.NewMessage(domain.MsgKeyModified, key.Note)}

		entered := in.Key
		newKey := entered
		if strings.TrimSpace(newKey) == "" {
			newKey = generateKey()
		}
		newKey = model.SanitizeKey(key.OrgID, newKey)
		if entered != key.Key && newKey != key.Key {
			if err := uc.changeKey(ctx, tx, newKey, key); err != nil {
				return err
			}
			renamed = true
			if strings.TrimSpace(entered) != "" && entered != key.Key {
				msgs = append(msgs, domain.NewMessage(domain.MsgKeyOrgPrefixed, entered, newKey))
			}
		}

		if err := uc.save(ctx, tx, key); err != nil {
			return err
		}

		res = &KeyResult{Key: key, Messages: msgs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncActivationKeyMutation("update")
	if renamed {
		metrics.IncActivationKeyMutation("rename")
	}
	logging.With(ctx, uc.log).Info().Int64("key_id", res.Key.ID).Bool("renamed", renamed).Msg("activation key updated")
	return res, nil
}

// save persists key. Marking it as the org default first clears the flag on its siblings.
func (uc *activationKeyUC) save(ctx context.Context, tx repository.Tx, key *model.ActivationKey) error {
	if key.OrgDefault {
		if err := uc.keys.ClearOrgDefault(ctx, tx, key.OrgID, key.ID); err != nil {
			return fmt.Errorf("clear org default: %w", err)
		}
	}
	err := uc.keys.Save(ctx, tx, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAlreadyExists):
		return domain.NewValidationError(domain.MsgKeyExists, key.Key)
	case errors.Is(err, domain.ErrConflict):
		return domain.NewValidationError(domain.MsgKeyOrgDefaultConflict)
	default:
		return fmt.Errorf("save activation key: %w", err)
	}
}

// newActivationKey builds an unsaved key for actor's org. A blank key string is replaced
// by a generated one; the result must not collide with an existing key.
func (uc *activationKeyUC) newActivationKey(
	ctx context.Context, tx repository.Tx, actor *model.User,
	keyString, note string, usageLimit *int64, base *model.Channel, orgDefault bool,
) (*model.ActivationKey, error) {
	if strings.TrimSpace(keyString) == "" {
		keyString = generateKey()
	}
	keyString = model.SanitizeKey(actor.OrgID, keyString)
	if err := uc.ensureKeyAvailable(ctx, tx, keyString, 0); err != nil {
		return nil, err
	}

	contact, err := uc.contacts.FindByLabel(ctx, tx, model.DefaultContactMethodLabel)
	if err != nil {
		return nil, fmt.Errorf("load default contact method: %w", err)
	}

	creator := actor.ID
	key := &model.ActivationKey{
		Key:           keyString,
		Note:          model.NoteOrDefault(note),
		OrgID:         actor.OrgID,
		CreatorID:     &creator,
		UsageLimit:    usageLimit,
		BaseChannel:   base,
		ContactMethod: *contact,
		OrgDefault:    orgDefault,
	}
	key.AddChannel(base)
	return key, nil
}

// changeKey renames key to newKey after checking that newKey is free.
func (uc *activationKeyUC) changeKey(ctx context.Context, tx repository.Tx, newKey string, key *model.ActivationKey) error {
	if !model.IsValidKey(newKey) {
		return domain.NewValidationError(domain.MsgKeyAllowedValues)
	}
	if err := uc.ensureKeyAvailable(ctx, tx, newKey, key.ID); err != nil {
		return err
	}
	key.Key = newKey
	return nil
}

func (uc *activationKeyUC) ensureKeyAvailable(ctx context.Context, tx repository.Tx, keyString string, ownID int64) error {
	existing, err := uc.keys.FindByKey(ctx, tx, keyString)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup key %q: %w", keyString, err)
	case existing.ID != ownID:
		return domain.NewValidationError(domain.MsgKeyExists, keyString)
	}
	return nil
}

// lookupChannel resolves the submitted base channel. A nil id means nothing was selected,
// model.NoBaseChannelID means the key follows the system's default base channel.
func (uc *activationKeyUC) lookupChannel(ctx context.Context, tx repository.Tx, actor *model.User, id *int64) (*model.Channel, error) {
	if id == nil {
		return nil, domain.NewValidationError(domain.MsgKeyNoChannel)
	}
	if *id == model.NoBaseChannelID {
		return nil, nil
	}
	ch, err := uc.visibleChannel(ctx, tx, actor, *id)
	if err != nil {
		return nil, err
	}
	if !ch.IsBase() {
		return nil, domain.NewValidationError(domain.MsgKeyInvalidChannel, *id)
	}
	return ch, nil
}

func (uc *activationKeyUC) visibleChannel(ctx context.Context, tx repository.Tx, actor *model.User, id int64) (*model.Channel, error) {
	ch, err := uc.channels.FindByID(ctx, tx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError(domain.MsgKeyInvalidChannel, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup channel %d: %w", id, err)
	}
	if !ch.VisibleTo(actor.OrgID) {
		return nil, domain.NewValidationError(domain.MsgKeyInvalidChannel, id)
	}
	return ch, nil
}

// replaceChildChannels rebuilds the key's channel set from its base channel plus childIDs.
func (uc *activationKeyUC) replaceChildChannels(ctx context.Context, tx repository.Tx, actor *model.User, key *model.ActivationKey, childIDs []int64) error {
	key.ClearChannels()
	key.AddChannel(key.BaseChannel)
	for _, id := range childIDs {
		ch, err := uc.visibleChannel(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		key.AddChannel(ch)
	}
	return nil
}

func (uc *activationKeyUC) applyContactMethod(ctx context.Context, tx repository.Tx, key *model.ActivationKey, id int64) error {
	if id == key.ContactMethod.ID {
		return nil
	}
	cm, err := uc.contacts.FindByID(ctx, tx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(domain.MsgKeyInvalidContact)
	}
	if err != nil {
		return fmt.Errorf("lookup contact method %d: %w", id, err)
	}
	key.ContactMethod = *cm
	return nil
}

func validateAddOnEntitlements(org *model.Org, labels []string) error {
	var verr *domain.ValidationError
	for _, l := range labels {
		if org.HasValidAddOn(l) {
			continue
		}
		if verr == nil {
			verr = &domain.ValidationError{}
		}
		verr.Add(domain.MsgKeyInvalidEntitlement, l)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func addEntitlements(key *model.ActivationKey, labels []string) {
	for _, l := range labels {
		key.AddEntitlement(l)
	}
}

func removeEntitlements(key *model.ActivationKey, labels []string) {
	for _, l := range labels {
		key.RemoveEntitlement(l)
	}
}
