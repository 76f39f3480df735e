package models

import "strings"

// Genres is the fixed set of genres this service aggregates, in the order
// they are fetched. The same terms double as the relevance vocabulary for
// name search: a searched station counts as in-domain when its tag text
// contains at least one of them.
var Genres = []string{"electronic", "techno", "house", "trance", "dance", "edm"}

// Quality and size limits applied to upstream results.
const (
	MinBitrate       = 64  // kbps floor for a station to be considered usable
	PerGenreLimit    = 20  // stations fetched per genre during aggregation
	AggregateLimit   = 100 // cap on the merged, ranked aggregate result
	GenreFetchLimit  = 50  // default limit for a single-genre fetch
	SearchLimit      = 30  // default limit for a name search
	FavoritesListMax = 100 // cap on the favorites listing
)

// HasGenreTag reports whether the free-text tag field contains at least one
// of the supported genre terms, case-insensitively.
func HasGenreTag(tags string) bool {
	lower := strings.ToLower(tags)
	for _, g := range Genres {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}
