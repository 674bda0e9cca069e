package usecase

import (
	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/infra/metrics"
)

// RequireOrgAdmin fails with a *domain.PermissionError unless actor administers their org.
func RequireOrgAdmin(actor *model.User) error {
	if actor.IsOrgAdmin() {
		return nil
	}
	metrics.IncPermissionDenied("enable_user")
	return &domain.PermissionError{
		Reason:  "only org admins can reactivate users",
		Title:   domain.MsgPermEnableUserTitle,
		Summary: domain.MsgPermEnableUserSummary,
	}
}

func requireKeyAdmin(actor *model.User) error {
	if actor.HasRole(model.RoleActivationKeyAdmin) {
		return nil
	}
	metrics.IncPermissionDenied("activation_key")
	return &domain.PermissionError{
		Reason:  "activation key administration requires the activation_key_admin role",
		Title:   domain.MsgPermActivationKeyTitle,
		Summary: domain.MsgPermActivationKeySummary,
	}
}

func requireConfigAdmin(actor *model.User) error {
	if actor.HasRole(model.RoleConfigAdmin) {
		return nil
	}
	metrics.IncPermissionDenied("config_download")
	return &domain.PermissionError{
		Reason:  "configuration downloads require the config_admin role",
		Title:   domain.MsgPermConfigTitle,
		Summary: domain.MsgPermConfigSummary,
	}
}
