package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"strings"
)

// SQLite backed cache mapping address strings to resolved coordinates.
// Address keys are expected to be consistent (e.g., normalized) by the
// caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch a cached geocode result for the given address.
func (s *SqliteGeocodeCache) Get(ctx context.Context, address string) (ports.GeocodeResult, bool, error) {
	if s.DB == nil {
		return ports.GeocodeResult{}, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return ports.GeocodeResult{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT lon, lat, label
    FROM geocode_cache
    WHERE address = ?;
	`

	var (
		lon, lat float64
		label    string
	)
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lon, &lat, &label)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GeocodeResult{}, false, nil
	}
	if err != nil {
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return ports.GeocodeResult{
		Coord: domain.Coordinates{Lon: lon, Lat: lat},
		Label: label,
	}, true, nil
}

// Store an address -> coordinates mapping in the cache.
func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, result ports.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (
        address,
        lon,
        lat,
        label
    )
    VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, address, result.Coord.Lon, result.Coord.Lat, result.Label); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}

	return nil
}
