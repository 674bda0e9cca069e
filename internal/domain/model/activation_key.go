package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultDescription is the note stored on keys submitted without a description.
const DefaultDescription = "None"

// NoBaseChannelID is the form sentinel for "no base channel".
const NoBaseChannelID int64 = -1

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ActivationKey is a registration token granting channels and entitlements to the systems
// registered with it.
type ActivationKey struct {
	ID            int64
	Key           string
	Note          string
	OrgID         int64
	CreatorID     *int64
	UsageLimit    *int64 // nil means unlimited
	BaseChannel   *Channel
	Channels      []*Channel // base channel first when present
	Entitlements  []string   // server group type labels
	ContactMethod ContactMethod
	OrgDefault    bool
	DeployConfigs bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MakePrefix returns the key prefix shared by every key of orgID.
func MakePrefix(orgID int64) string {
	return fmt.Sprintf("%d-", orgID)
}

// IsValidKey reports whether key only holds letters, digits, '-', '_' and '.'.
func IsValidKey(key string) bool {
	return validKey.MatchString(strings.TrimSpace(key))
}

// SanitizeKey trims key and prepends the org prefix unless it is already there.
func SanitizeKey(orgID int64, key string) string {
	key = strings.TrimSpace(key)
	prefix := MakePrefix(orgID)
	if strings.HasPrefix(key, prefix) {
		return key
	}
	return prefix + key
}

// UnprefixedKey returns the key without its org prefix. ok is false for legacy keys
// stored without the prefix, in which case the full key is returned.
func (k *ActivationKey) UnprefixedKey() (key string, ok bool) {
	prefix := MakePrefix(k.OrgID)
	if strings.HasPrefix(k.Key, prefix) {
		return strings.TrimPrefix(k.Key, prefix), true
	}
	return k.Key, false
}

func (k *ActivationKey) IsUniversalDefault() bool { return k.OrgDefault }

func (k *ActivationKey) ClearChannels() { k.Channels = nil }

// AddChannel subscribes the key to c; adding a channel twice is a no-op.
func (k *ActivationKey) AddChannel(c *Channel) {
	if c == nil {
		return
	}
	for _, existing := range k.Channels {
		if existing.ID == c.ID {
			return
		}
	}
	k.Channels = append(k.Channels, c)
}

func (k *ActivationKey) ChannelIDs() []int64 {
	ids := make([]int64, 0, len(k.Channels))
	for _, c := range k.Channels {
		ids = append(ids, c.ID)
	}
	return ids
}

// ChildChannelIDs returns the subscribed channels other than the base channel.
func (k *ActivationKey) ChildChannelIDs() []int64 {
	var ids []int64
	for _, c := range k.Channels {
		if k.BaseChannel != nil && c.ID == k.BaseChannel.ID {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

func (k *ActivationKey) HasEntitlement(label string) bool {
	for _, e := range k.Entitlements {
		if e == label {
			return true
		}
	}
	return false
}

func (k *ActivationKey) AddEntitlement(label string) {
	if k.HasEntitlement(label) {
		return
	}
	k.Entitlements = append(k.Entitlements, label)
}

func (k *ActivationKey) RemoveEntitlement(label string) {
	out := k.Entitlements[:0]
	for _, e := range k.Entitlements {
		if e != label {
			out = append(out, e)
		}
	}
	k.Entitlements = out
}

// NoteOrDefault maps a blank description onto DefaultDescription.
func NoteOrDefault(description string) string {
	if strings.TrimSpace(description) == "" {
		return DefaultDescription
	}
	return description
}
