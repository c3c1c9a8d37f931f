package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPoisQuery := `
	CREATE TABLE IF NOT EXISTS pois (
		poi_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		category TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		rating REAL NOT NULL DEFAULT 0,
		visit_minutes INTEGER NOT NULL DEFAULT 30,
		opens_at TEXT NOT NULL DEFAULT '',
		closes_at TEXT NOT NULL DEFAULT '',
		hours_expr TEXT NOT NULL DEFAULT '',
		embedding TEXT NOT NULL DEFAULT '[]'
	);
	`

	createLegCacheQuery := `
	CREATE TABLE IF NOT EXISTS leg_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_km REAL NOT NULL,
        duration_minutes REAL NOT NULL,
        geometry TEXT NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        label TEXT NOT NULL DEFAULT ''
    );
	`

	createCategoryIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_pois_category
    ON pois(category);
	`

	statements := []string{
		createPoisQuery,
		createLegCacheQuery,
		createGeocodeCacheQuery,
		createCategoryIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type POISeed struct {
	POIID        string    `json:"poi_id"`
	Name         string    `json:"name"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Rating       float64   `json:"rating"`
	VisitMinutes int       `json:"visit_minutes"`
	OpensAt      string    `json:"opens_at"`
	ClosesAt     string    `json:"closes_at"`
	HoursExpr    string    `json:"hours_expr"`
	Embedding    []float64 `json:"embedding"`
}

// Populate the database with POI data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed pois: read %q: %w", jsonPath, err)
	}

	var data []POISeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed pois: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.POIID) == "" {
			return fmt.Errorf("seed pois: empty poi_id at index %d", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed pois: poi %q: name cannot be empty", item.POIID)
		}
		if strings.TrimSpace(item.Category) == "" {
			return fmt.Errorf("seed pois: poi %q: category cannot be empty", item.POIID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO pois (
		poi_id, name, lat, lon, category, tags, rating,
		visit_minutes, opens_at, closes_at, hours_expr, embedding
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed pois: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		tags, embedding, err := encodeSeedFields(p)
		if err != nil {
			return fmt.Errorf("seed pois: poi %q: %w", p.POIID, err)
		}

		if _, err := stmt.Exec(
			p.POIID, p.Name, p.Lat, p.Lon, p.Category, tags, p.Rating,
			p.VisitMinutes, p.OpensAt, p.ClosesAt, p.HoursExpr, embedding,
		); err != nil {
			return fmt.Errorf("seed pois: insert poi_id=%q: %w", p.POIID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed pois: commit tx: %w", err)
	}

	return nil
}

func encodeSeedFields(p POISeed) (tags string, embedding string, err error) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Embedding == nil {
		p.Embedding = []float64{}
	}

	t, err := json.Marshal(p.Tags)
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}
	e, err := json.Marshal(p.Embedding)
	if err != nil {
		return "", "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(t), string(e), nil
}
