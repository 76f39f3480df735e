package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dialwave/radiodex/internal/cache"
	"github.com/dialwave/radiodex/internal/models"
)

// Cache TTLs. Favorites change only through this process, so the TTLs are
// a backstop; invalidation on write is what keeps reads fresh.
const (
	ttlFavorite  = 5 * time.Minute
	ttlFavorites = 1 * time.Minute
)

// CachedStore wraps a Store with a Redis caching layer. Reads are served
// from cache when possible; writes invalidate the affected keys.
type CachedStore struct {
	inner Store
	cache *cache.Redis
}

// NewCachedStore creates a CachedStore that wraps inner with Redis caching.
func NewCachedStore(inner Store, c *cache.Redis) *CachedStore {
	return &CachedStore{inner: inner, cache: c}
}

// --- cached read operations ---

func (c *CachedStore) FindFavorite(ctx context.Context, stationUUID string) (*models.FavoriteStation, error) {
	key := favoriteKey(stationUUID)
	if v, err := cache.Get[models.FavoriteStation](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	fav, err := c.inner.FindFavorite(ctx, stationUUID)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, c.cache, key, fav, ttlFavorite); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return fav, nil
}

// favoriteListResult wraps the slice so an empty list round-trips through
// JSON distinguishably from a cache miss.
type favoriteListResult struct {
	Favorites []models.FavoriteStation `json:"favorites"`
}

func (c *CachedStore) ListFavorites(ctx context.Context, limit int) ([]models.FavoriteStation, error) {
	key := fmt.Sprintf("favorites:list:%d", limit)
	if v, err := cache.Get[favoriteListResult](ctx, c.cache, key); err == nil {
		return v.Favorites, nil
	}
	favs, err := c.inner.ListFavorites(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, c.cache, key, favoriteListResult{Favorites: favs}, ttlFavorites); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return favs, nil
}

// --- write operations with cache invalidation ---

func (c *CachedStore) InsertFavorite(ctx context.Context, fav *models.FavoriteStation) error {
	if err := c.inner.InsertFavorite(ctx, fav); err != nil {
		return err
	}
	c.invalidate(ctx, favoriteKey(fav.StationUUID))
	c.invalidatePattern(ctx, "favorites:list:*")
	return nil
}

func (c *CachedStore) DeleteFavorite(ctx context.Context, stationUUID string) (int64, error) {
	n, err := c.inner.DeleteFavorite(ctx, stationUUID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.invalidate(ctx, favoriteKey(stationUUID))
		c.invalidatePattern(ctx, "favorites:list:*")
	}
	return n, nil
}

// --- helpers ---

func favoriteKey(stationUUID string) string {
	return "favorite:" + stationUUID
}

// invalidate deletes exact cache keys, logging any errors.
func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.cache, keys...); err != nil {
		log.Printf("cache: del %v: %v", keys, err)
	}
}

// invalidatePattern deletes all keys matching the given glob patterns.
func (c *CachedStore) invalidatePattern(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		if err := cache.DelPattern(ctx, c.cache, p); err != nil {
			log.Printf("cache: del pattern %s: %v", p, err)
		}
	}
}
