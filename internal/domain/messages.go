package domain

// Catalogue keys of user-visible messages. Texts live in internal/infra/i18n/locales.
const (
	MsgKeyAllowedValues      = "activationkey.allowed_values"
	MsgKeyNoChannel          = "activationkey.no_channel"
	MsgKeyInvalidChannel     = "activationkey.invalid_channel"
	MsgKeyInvalidEntitlement = "activationkey.invalid_entitlement"
	MsgKeyInvalidUsageLimit  = "activationkey.invalid_usage_limit"
	MsgKeyDescriptionTooLong = "activationkey.description_too_long"
	MsgKeyInvalidContact     = "activationkey.invalid_contact_method"
	MsgKeyExists             = "activationkey.exists"
	MsgKeyCreated            = "activationkey.created"
	MsgKeyModified           = "activationkey.modified"
	MsgKeyOrgPrefixed        = "activationkey.org_prefixed"
	MsgKeyOrgDefaultConflict = "activationkey.org_default_conflict"

	MsgUserNotDisabled = "user.enable.not_disabled"
	MsgUserEnabled     = "user.enable.success"

	MsgPermEnableUserTitle      = "permission.enable_user.title"
	MsgPermEnableUserSummary    = "permission.enable_user.summary"
	MsgPermActivationKeyTitle   = "permission.activation_keys.title"
	MsgPermActivationKeySummary = "permission.activation_keys.summary"
	MsgPermConfigTitle          = "permission.config.title"
	MsgPermConfigSummary        = "permission.config.summary"

	MsgBadParameter = "request.bad_parameter"
	MsgNotFound     = "request.not_found"
	MsgRateLimited  = "request.rate_limited"
	MsgInternal     = "request.internal_error"
	MsgConflict     = "request.conflict"
)
