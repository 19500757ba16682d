package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenerateKey builds "<kind>:<hash>" from normalised parts, so "Photosynthesis " and
// "photosynthesis" share an entry.
func GenerateKey(kind string, parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	h := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return kind + ":" + hex.EncodeToString(h[:])[:24]
}
