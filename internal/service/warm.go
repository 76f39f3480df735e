package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dialwave/radiodex/internal/cache"
	"github.com/dialwave/radiodex/internal/models"
)

// lockTTL bounds how long a crashed warmer can hold a warm lock.
const lockTTL = time.Minute

// WarmCache refreshes one cached station list (a genre or the aggregate)
// from upstream. A per-key Redis lock ensures concurrent warmers, including
// ones in other replicas, do not duplicate the same upstream fan-out; losing
// the lock is a no-op, not an error. Empty fetch results are not cached so a
// transient upstream outage never pins an empty list for a full TTL.
func WarmCache(ctx context.Context, rds *cache.Redis, f TagFetcher, job cache.WarmJob) error {
	var key string
	var ttl time.Duration
	if job.Aggregate {
		key, ttl = cache.KeyAggregate, cache.TTLAggregate
	} else {
		if job.Genre == "" {
			return fmt.Errorf("warm job has neither genre nor aggregate")
		}
		key, ttl = cache.GenreKey(job.Genre), cache.TTLGenre
	}

	unlock, err := cache.TryLock(ctx, rds, "radiodex:lock:"+key, lockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLocked) {
			return nil
		}
		return err
	}
	defer unlock()

	var stations []models.Station
	if job.Aggregate {
		stations = Aggregate(ctx, f)
	} else {
		stations = f.StationsByTag(ctx, job.Genre, models.GenreFetchLimit)
	}
	if len(stations) == 0 {
		return nil
	}
	return cache.Set(ctx, rds, key, stations, ttl)
}
