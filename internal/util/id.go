package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a URL-safe hex string, used for request correlation ids.
// Entity ids are store-assigned integers, not random strings.
func NewID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
