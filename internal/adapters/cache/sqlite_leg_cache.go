package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
)

// SQLite backed cache for origin->destination routed legs. Geometry is
// stored as a JSON polyline alongside the metrics.
type SqliteLegCache struct {
	DB *sql.DB
}

func NewSqliteLegCache(db *sql.DB) *SqliteLegCache {
	return &SqliteLegCache{DB: db}
}

// Fetch a cached leg; the second return reports whether it was found.
func (s *SqliteLegCache) Get(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, bool, error) {
	if s.DB == nil {
		return ports.LegResult{}, false, errors.New("leg cache: db is nil")
	}

	q := `
	SELECT
        distance_km,
        duration_minutes,
        geometry
    FROM leg_cache
    WHERE origin = ? AND destination = ?;
	`

	var (
		km, minutes  float64
		geometryJSON string
	)
	err := s.DB.QueryRowContext(ctx, q, pointKey(origin), pointKey(destination)).Scan(&km, &minutes, &geometryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegResult{}, false, nil
	}
	if err != nil {
		return ports.LegResult{}, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	var geometry []domain.Coordinates
	if err := json.Unmarshal([]byte(geometryJSON), &geometry); err != nil {
		return ports.LegResult{}, false, fmt.Errorf("get leg cache: decode geometry: %w", err)
	}

	return ports.LegResult{
		DistanceKm:      km,
		DurationMinutes: minutes,
		Geometry:        geometry,
	}, true, nil
}

// Store a routed leg. Overwriting an existing key is safe.
func (s *SqliteLegCache) Put(ctx context.Context, origin, destination domain.Coordinates, leg ports.LegResult) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	geometryJSON, err := json.Marshal(leg.Geometry)
	if err != nil {
		return fmt.Errorf("insert leg cache: encode geometry: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO leg_cache (
        origin,
        destination,
        distance_km,
        duration_minutes,
        geometry
    )
    VALUES (?, ?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, pointKey(origin), pointKey(destination), leg.DistanceKm, leg.DurationMinutes, string(geometryJSON)); err != nil {
		return fmt.Errorf("insert leg cache: %w", err)
	}

	return nil
}
