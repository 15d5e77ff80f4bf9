package util

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// BulkKey returns a deterministic composite key for a set of members:
// prefix + ":" + the first 16 hex chars of sha256 over the sorted members.
// keys is not modified.
func BulkKey(prefix string, keys []string) string {
	s := make([]string, len(keys))
	copy(s, keys)
	sort.Strings(s)
	return BulkKeySorted(prefix, s)
}

// BulkKeySorted is BulkKey for keys already in ascending order.
func BulkKeySorted(prefix string, sorted []string) string {
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return prefix + ":" + hex.EncodeToString(sum[:8])
}
