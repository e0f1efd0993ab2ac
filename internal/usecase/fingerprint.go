package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// SnapshotFingerprint computes a deterministic identity for a set of
// product keys. Keys are lowercased, sorted, and newline-joined before
// hashing, so the same selection produces the same fingerprint regardless
// of order or duplicates. Used as the cache key for comparison results.
func SnapshotFingerprint(keys []string) string {
	normalized := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, key)
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, "\n")))
	return hex.EncodeToString(sum[:])
}
