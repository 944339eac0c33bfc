package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// BundleKey returns the cache key for an engine bundle fetched from url.
func BundleKey(url string) string {
	return "engine:" + Hash([]byte(url))
}
