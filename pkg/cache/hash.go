package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key joins a key type and the hash of everything that shapes the cached
// artifact: "route:<hex>" for a route request, "render:<hex>" for a document.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Scenes use it as their content
// hash, so moving a single card yields a new render key.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
