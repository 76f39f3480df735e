package store

import (
	"context"
	"errors"

	"github.com/dialwave/radiodex/internal/models"
)

// ErrNotFound is returned when a favorite does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by InsertFavorite when a favorite for the
// same stationuuid is already stored.
var ErrAlreadyExists = errors.New("already exists")

// Store defines persistence for favorite stations.
type Store interface {
	// FindFavorite returns the favorite for a stationuuid, or ErrNotFound.
	FindFavorite(ctx context.Context, stationUUID string) (*models.FavoriteStation, error)
	// InsertFavorite stores a new favorite. Insertion is atomic with the
	// existence check: a concurrent insert for the same stationuuid yields
	// ErrAlreadyExists for exactly one of the callers, never a duplicate row.
	InsertFavorite(ctx context.Context, fav *models.FavoriteStation) error
	// ListFavorites returns up to limit favorites, most recently created first.
	ListFavorites(ctx context.Context, limit int) ([]models.FavoriteStation, error)
	// DeleteFavorite removes the favorite for a stationuuid and returns the
	// number of rows deleted (0 when it did not exist).
	DeleteFavorite(ctx context.Context, stationUUID string) (int64, error)
}
