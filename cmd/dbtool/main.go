package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/platform/db"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool loads the POI seed file into a shared Postgres catalog. The
// server itself runs on SQLite; Postgres is the team-wide source the
// seed files are curated against.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/pois.json")

	log.Println("Initializing catalog schema...")
	if err := initSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Loading seed file...")
	n, err := loadSeed(conn, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. rows=%d", n)
}

func initSchema(conn *sql.DB) error {
	q := `
	CREATE TABLE IF NOT EXISTS pois (
		poi_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		category TEXT NOT NULL,
		tags JSONB NOT NULL DEFAULT '[]',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		visit_minutes INTEGER NOT NULL DEFAULT 30,
		opens_at TEXT NOT NULL DEFAULT '',
		closes_at TEXT NOT NULL DEFAULT '',
		hours_expr TEXT NOT NULL DEFAULT '',
		embedding JSONB NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_pois_category ON pois(category);
	`
	if _, err := conn.Exec(q); err != nil {
		return fmt.Errorf("create pois table: %w", err)
	}
	return nil
}

func loadSeed(conn *sql.DB, seedPath string) (int, error) {
	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", seedPath, err)
	}

	var data []repositories.POISeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("parse json: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `
	INSERT INTO pois (
		poi_id, name, lat, lon, category, tags, rating,
		visit_minutes, opens_at, closes_at, hours_expr, embedding
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (poi_id) DO UPDATE SET
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		category = EXCLUDED.category,
		tags = EXCLUDED.tags,
		rating = EXCLUDED.rating,
		visit_minutes = EXCLUDED.visit_minutes,
		opens_at = EXCLUDED.opens_at,
		closes_at = EXCLUDED.closes_at,
		hours_expr = EXCLUDED.hours_expr,
		embedding = EXCLUDED.embedding;
	`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		if strings.TrimSpace(p.POIID) == "" {
			return 0, fmt.Errorf("poi with empty poi_id in %q", seedPath)
		}

		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return 0, fmt.Errorf("encode tags for poi %q: %w", p.POIID, err)
		}
		embedding, err := json.Marshal(p.Embedding)
		if err != nil {
			return 0, fmt.Errorf("encode embedding for poi %q: %w", p.POIID, err)
		}

		if _, err := stmt.Exec(
			p.POIID, p.Name, p.Lat, p.Lon, p.Category, string(tags), p.Rating,
			p.VisitMinutes, p.OpensAt, p.ClosesAt, p.HoursExpr, string(embedding),
		); err != nil {
			return 0, fmt.Errorf("insert poi_id=%q: %w", p.POIID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return len(data), nil
}
