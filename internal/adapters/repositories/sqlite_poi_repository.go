package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"math"
	"strings"
)

// SQLite-backed implementation of the POICatalog and BreakLocator ports.
type SqlitePOIRepository struct{ DB *sql.DB }

func NewSqlitePOIRepository(db *sql.DB) *SqlitePOIRepository {
	return &SqlitePOIRepository{DB: db}
}

const poiColumns = `
	poi_id,
	name,
	lat,
	lon,
	category,
	tags,
	rating,
	visit_minutes,
	opens_at,
	closes_at,
	hours_expr,
	embedding
`

// Query returns catalog POIs, optionally restricted to categories.
func (s *SqlitePOIRepository) Query(ctx context.Context, categories []string) ([]*domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
	}

	query := `SELECT ` + poiColumns + ` FROM pois`
	args := make([]any, 0, len(categories))

	uniq := make([]string, 0, len(categories))
	seen := map[string]struct{}{}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}

	if len(uniq) > 0 {
		// SQLite does not support binding slices directly in an IN (...)
		// clause; only the placeholder structure is interpolated.
		ph := strings.TrimSuffix(strings.Repeat("?,", len(uniq)), ",")
		query += fmt.Sprintf(" WHERE category IN (%s)", ph)
		for _, c := range uniq {
			args = append(args, c)
		}
	}
	query += " ORDER BY poi_id;"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pois: %w", err)
	}
	defer rows.Close()

	pois := make([]*domain.POI, 0, 64)
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, fmt.Errorf("query pois: %w", err)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query pois: row iteration: %w", err)
	}

	return pois, nil
}

// Categories that qualify as break stops.
var breakCategories = []string{"cafe", "coffee_shop", "tearoom"}

// NearestBreakSpot finds the closest qualifying POI within radiusKm of
// a point. Returns (nil, nil) when nothing qualifies.
func (s *SqlitePOIRepository) NearestBreakSpot(ctx context.Context, near domain.Coordinates, radiusKm float64) (*domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
	}

	// Coarse bounding-box prefilter in SQL; exact distance in Go.
	latDelta := radiusKm / 111.32
	lonDelta := radiusKm / (111.32 * math.Cos(near.Lat*math.Pi/180))

	ph := strings.TrimSuffix(strings.Repeat("?,", len(breakCategories)), ",")
	query := `SELECT ` + poiColumns + ` FROM pois WHERE category IN (` + ph + `)
	AND lat BETWEEN ? AND ?
	AND lon BETWEEN ? AND ?;`

	args := make([]any, 0, len(breakCategories)+4)
	for _, c := range breakCategories {
		args = append(args, c)
	}
	args = append(args, near.Lat-latDelta, near.Lat+latDelta, near.Lon-lonDelta, near.Lon+lonDelta)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query break spots: %w", err)
	}
	defer rows.Close()

	var (
		best     *domain.POI
		bestDist = math.Inf(1)
	)
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, fmt.Errorf("query break spots: %w", err)
		}
		d := geo.Haversine(near, p.Coord)
		if d <= radiusKm && d < bestDist {
			best = p
			bestDist = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query break spots: row iteration: %w", err)
	}

	return best, nil
}

func scanPOI(rows *sql.Rows) (*domain.POI, error) {
	var (
		p                   domain.POI
		tagsJSON, embedJSON string
	)
	if err := rows.Scan(
		&p.ID, &p.Name, &p.Coord.Lat, &p.Coord.Lon, &p.Category,
		&tagsJSON, &p.Rating, &p.VisitMinutes,
		&p.OpensAt, &p.ClosesAt, &p.HoursExpr, &embedJSON,
	); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for poi %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(embedJSON), &p.Embedding); err != nil {
		return nil, fmt.Errorf("decode embedding for poi %s: %w", p.ID, err)
	}

	return &p, nil
}
