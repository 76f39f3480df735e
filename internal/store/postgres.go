package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dialwave/radiodex/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// FindFavorite returns the favorite for a stationuuid, or ErrNotFound.
func (p *Postgres) FindFavorite(ctx context.Context, stationUUID string) (*models.FavoriteStation, error) {
	var fav models.FavoriteStation
	err := p.pool.QueryRow(ctx,
		`SELECT id, stationuuid, name, url, country, tags, created_at
		 FROM favorites WHERE stationuuid = $1`,
		stationUUID,
	).Scan(&fav.ID, &fav.StationUUID, &fav.Name, &fav.URL, &fav.Country, &fav.Tags, &fav.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("FindFavorite: %w", err)
	}
	return &fav, nil
}

// InsertFavorite stores a new favorite. The UNIQUE constraint on stationuuid
// plus ON CONFLICT DO NOTHING makes the insert-if-absent atomic; a conflicting
// concurrent insert surfaces as ErrAlreadyExists instead of a duplicate row.
func (p *Postgres) InsertFavorite(ctx context.Context, fav *models.FavoriteStation) error {
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO favorites (id, stationuuid, name, url, country, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (stationuuid) DO NOTHING`,
		fav.ID, fav.StationUUID, fav.Name, fav.URL, fav.Country, fav.Tags, fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("InsertFavorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// ListFavorites returns up to limit favorites, newest first.
func (p *Postgres) ListFavorites(ctx context.Context, limit int) ([]models.FavoriteStation, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, stationuuid, name, url, country, tags, created_at
		 FROM favorites ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ListFavorites: %w", err)
	}
	defer rows.Close()

	var favs []models.FavoriteStation
	for rows.Next() {
		var fav models.FavoriteStation
		if err := rows.Scan(&fav.ID, &fav.StationUUID, &fav.Name, &fav.URL, &fav.Country, &fav.Tags, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListFavorites scan: %w", err)
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListFavorites rows: %w", err)
	}
	return favs, nil
}

// DeleteFavorite removes the favorite for a stationuuid.
func (p *Postgres) DeleteFavorite(ctx context.Context, stationUUID string) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM favorites WHERE stationuuid = $1`, stationUUID)
	if err != nil {
		return 0, fmt.Errorf("DeleteFavorite: %w", err)
	}
	return tag.RowsAffected(), nil
}
