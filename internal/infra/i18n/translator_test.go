//go:build !integration

package i18n

import (
	"testing"
	"testing/fstest"

	"systems-console/internal/domain"
)

func TestTranslator(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("greeting: Hello\nwelcome_user: \"Hello {{.Arg0}}, you have {{.Arg1}} keys\"\n")},
		"locales/README":  {Data: []byte("ignored")},
	}
	translator, err := NewTranslator(fsys, "en")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "Hello" {
			t.Errorf("wanted 'Hello', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted key back, got '%s'", got)
		}
	})

	t.Run("should format positional arguments", func(t *testing.T) {
		got := translator.T("welcome_user", "admin", 3)
		if got != "Hello admin, you have 3 keys" {
			t.Errorf("got '%s'", got)
		}
	})
}

func TestEmbeddedCatalogueCoversDomainKeys(t *testing.T) {
	translator, err := NewTranslator(LocalesFS, "en")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	keys := []string{
		domain.MsgKeyAllowedValues, domain.MsgKeyNoChannel, domain.MsgKeyInvalidChannel,
		domain.MsgKeyInvalidEntitlement, domain.MsgKeyInvalidUsageLimit, domain.MsgKeyDescriptionTooLong,
		domain.MsgKeyInvalidContact, domain.MsgKeyExists, domain.MsgKeyCreated, domain.MsgKeyModified,
		domain.MsgKeyOrgPrefixed, domain.MsgUserNotDisabled, domain.MsgUserEnabled,
		domain.MsgPermEnableUserTitle, domain.MsgPermEnableUserSummary,
		domain.MsgPermActivationKeyTitle, domain.MsgPermActivationKeySummary,
		domain.MsgPermConfigTitle, domain.MsgPermConfigSummary,
		domain.MsgBadParameter, domain.MsgNotFound, domain.MsgRateLimited, domain.MsgInternal,
	}
	for _, k := range keys {
		if got := translator.T(k, "x", "y"); got == k {
			t.Errorf("catalogue is missing %q", k)
		}
	}

	if got := translator.T(domain.MsgKeyModified, "web tier"); got != "Activation key web tier has been modified." {
		t.Errorf("got %q", got)
	}
}
