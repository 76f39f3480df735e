package service

import (
	"context"
	"sort"

	"github.com/dialwave/radiodex/internal/models"
)

// TagFetcher fetches stations for one genre tag. Implementations report
// failures as empty result sets rather than errors.
type TagFetcher interface {
	StationsByTag(ctx context.Context, tag string, limit int) []models.Station
}

// Aggregate produces the cross-genre station list: it fetches each supported
// genre in order, merges the results, drops duplicate stationuuids keeping
// the first occurrence, ranks by clickcount descending (stable, so ties keep
// their first-seen order), and caps the result at AggregateLimit.
//
// Genres are fetched sequentially; one genre coming back empty does not stop
// the rest. Aggregate never returns an error.
func Aggregate(ctx context.Context, f TagFetcher) []models.Station {
	var merged []models.Station
	for _, genre := range models.Genres {
		// Stop fanning out once the caller has gone away; whatever was
		// already merged still ranks deterministically.
		if ctx.Err() != nil {
			break
		}
		merged = append(merged, f.StationsByTag(ctx, genre, models.PerGenreLimit)...)
	}

	seen := make(map[string]struct{}, len(merged))
	unique := make([]models.Station, 0, len(merged))
	for _, s := range merged {
		if _, ok := seen[s.StationUUID]; ok {
			continue
		}
		seen[s.StationUUID] = struct{}{}
		unique = append(unique, s)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].ClickCount > unique[j].ClickCount
	})

	if len(unique) > models.AggregateLimit {
		unique = unique[:models.AggregateLimit]
	}
	return unique
}
