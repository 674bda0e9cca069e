package usecase

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// generateKey creates a random, unique key body for activation keys submitted without
// one. The org prefix is added by model.SanitizeKey.
func generateKey() string {
	return strings.ToLower(ulid.Make().String())
}
