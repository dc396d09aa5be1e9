package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a short opaque identifier: the first 8 hex chars of a
// random UUID. Used for every entity id and for share tokens.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:8]
}
