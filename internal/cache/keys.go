package cache

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Station-list cache keys and TTLs, shared by the HTTP handlers and the
// warm worker. TTLs are short by design: the upstream directory is the
// source of truth and this layer only absorbs request bursts.
const (
	KeyAggregate = "stations:all"

	TTLAggregate = 2 * time.Minute
	TTLGenre     = 2 * time.Minute
	TTLSearch    = 1 * time.Minute
)

// GenreKey is the cache key for a single genre's station list.
func GenreKey(tag string) string {
	return "stations:genre:" + tag
}

// SearchKey is the cache key for a name-search result. The free-text query
// is hashed so arbitrary input cannot bloat or break key syntax.
func SearchKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return fmt.Sprintf("stations:search:%x", h[:8])
}
