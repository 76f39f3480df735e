package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteStation is a persisted snapshot of a station at the moment it was
// favorited. It is not a live reference: upstream changes to the station do
// not propagate into an existing favorite.
type FavoriteStation struct {
	ID          string    `json:"id"`
	StationUUID string    `json:"stationuuid"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Country     string    `json:"country"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFavoriteStation builds a favorite snapshot from station fields,
// assigning a fresh id and creation timestamp.
func NewFavoriteStation(stationUUID, name, url, country, tags string) *FavoriteStation {
	return &FavoriteStation{
		ID:          uuid.NewString(),
		StationUUID: stationUUID,
		Name:        name,
		URL:         url,
		Country:     country,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}
}
