package model

import (
	"strings"
	"time"

	"systems-console/internal/domain"
)

// Roles a console user can hold within their organization.
const (
	RoleOrgAdmin           = "org_admin"
	RoleActivationKeyAdmin = "activation_key_admin"
	RoleConfigAdmin        = "config_admin"
)

// User is a console account belonging to exactly one organization.
type User struct {
	ID        int64
	OrgID     int64
	Login     string
	Roles     []string
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(orgID int64, login string, roles ...string) (*User, error) {
	if orgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		OrgID:     orgID,
		Login:     login,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == 0 }

// HasRole reports whether the user holds role. Org admins implicitly hold every role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role || r == RoleOrgAdmin {
			return true
		}
	}
	return false
}

func (u *User) IsOrgAdmin() bool { return u.HasRole(RoleOrgAdmin) }

// Enable clears the disabled flag. It returns false when the user was not disabled.
func (u *User) Enable() bool {
	if !u.Disabled {
		return false
	}
	u.Disabled = false
	u.UpdatedAt = time.Now()
	return true
}
