package domain

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a prefixed random identifier, e.g. "task_3f2a9c1b4d07".
// The prefix makes IDs self-describing in logs and API payloads.
func NewID(prefix string) string {
	id := uuid.New()
	return prefix + "_" + hex.EncodeToString(id[:])[:12]
}
