package main

import (
	"database/sql"
	"fmt"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/adapters/embedding"
	"itinerary-route-service/internal/adapters/explain"
	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/adapters/routing"
	"itinerary-route-service/internal/adapters/weather"
	"itinerary-route-service/internal/api"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/hours"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/services"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, ORS, Open-Meteo) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/pois.json")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqlitePOIRepository(db)

	provider, geocoder := buildRouting(db)
	resolver := hours.NewResolver()

	planner := &services.Planner{
		Catalog:  repo,
		Provider: provider,
		Resolver: resolver,
		Breaks:   &services.BreakInserter{Locator: repo, Provider: provider},
	}

	router := api.NewRouter(api.Deps{
		Planner:   planner,
		Catalog:   repo,
		Geocoder:  geocoder,
		Weather:   weather.NewOpenMeteoProvider(),
		Embedder:  buildEmbedder(),
		Explainer: buildExplainer(),
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildRouting picks the routing stack from the environment. With an
// ORS key the provider is ORS with a haversine fallback; without one
// the service still runs on estimated legs, but cannot geocode.
func buildRouting(db *sql.DB) (ports.RoutingProvider, ports.Geocoder) {
	estimate := routing.NewHaversineRoutingProvider()

	orsKey := strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	if orsKey == "" {
		log.Println("ORS_API_KEY not set; using haversine leg estimates, geocoding disabled")
		return estimate, nil
	}

	ors, err := routing.NewORSRoutingProvider(orsKey, buildLegCache(db))
	if err != nil {
		log.Fatal(err)
	}

	geocoder, err := routing.NewORSGeocoder(ors, cache.NewSqliteGeocodeCache(db))
	if err != nil {
		log.Fatal(err)
	}

	return routing.NewFallbackRoutingProvider(ors, estimate), geocoder
}

// buildLegCache prefers a shared Redis cache when REDIS_ADDR is set,
// falling back to the per-instance SQLite table.
func buildLegCache(db *sql.DB) routing.LegCache {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return cache.NewSqliteLegCache(db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	log.Printf("Using redis leg cache addr=%s", addr)
	return cache.NewRedisLegCache(client, 24*time.Hour)
}

func buildEmbedder() ports.Embedder {
	endpoint := strings.TrimSpace(os.Getenv("EMBED_ENDPOINT"))
	if endpoint == "" {
		return nil
	}

	embedder, err := embedding.NewHTTPEmbedder(endpoint, os.Getenv("EMBED_API_KEY"))
	if err != nil {
		log.Fatal(err)
	}
	return embedder
}

func buildExplainer() ports.Explainer {
	endpoint := strings.TrimSpace(os.Getenv("EXPLAIN_ENDPOINT"))
	if endpoint == "" {
		return explain.NewTemplateExplainer()
	}
	return explain.NewRemoteExplainer(endpoint, os.Getenv("EXPLAIN_API_KEY"))
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
