package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy width of a session token. 32 random bytes make
// collisions negligible, so no uniqueness check against the store is done.
const tokenBytes = 32

// GenerateToken produces a 64-character hex-encoded opaque session token
// from a cryptographically secure random source.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on a healthy system
		panic(fmt.Sprintf("failed to generate session token: %v", err))
	}
	return hex.EncodeToString(b)
}
