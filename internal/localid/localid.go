// Package localid generates local entity identifiers.
package localid

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// 24 hex characters, 96 bits.
const hashWidth = 24

// FromExternal derives a stable local identifier for a record that came from a
// remote system. The same (integration, external id) pair always yields the
// same value, so repeated syncs never regenerate an identifier.
func FromExternal(integration, externalID string) string {
	key := strings.TrimSpace(integration) + ":" + strings.TrimSpace(externalID)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:hashWidth]
}

// New returns a random identifier for records authored locally rather than
// mirrored from a remote system.
func New() string {
	return uuid.NewString()
}
