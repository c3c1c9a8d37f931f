package cache

import (
	"context"
	"database/sql"
	"testing"

	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"

	_ "modernc.org/sqlite"
)

func newCacheDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteLegCacheRoundTrip(t *testing.T) {
	c := NewSqliteLegCache(newCacheDB(t))
	ctx := context.Background()

	origin := domain.Coordinates{Lat: 56.3287, Lon: 44.0020}
	dest := domain.Coordinates{Lat: 56.3310, Lon: 44.0060}
	leg := ports.LegResult{
		DistanceKm:      0.42,
		DurationMinutes: 6.5,
		Geometry:        []domain.Coordinates{origin, dest},
	}

	if _, ok, err := c.Get(ctx, origin, dest); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, origin, dest, leg); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := c.Get(ctx, origin, dest)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got.DistanceKm != leg.DistanceKm || got.DurationMinutes != leg.DurationMinutes {
		t.Fatalf("got %+v, want %+v", got, leg)
	}
	if len(got.Geometry) != 2 {
		t.Fatalf("geometry = %d points, want 2", len(got.Geometry))
	}

	// Direction matters: the reverse pair is a distinct key.
	if _, ok, _ := c.Get(ctx, dest, origin); ok {
		t.Fatal("reverse lookup should miss")
	}
}

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	c := NewSqliteGeocodeCache(newCacheDB(t))
	ctx := context.Background()

	result := ports.GeocodeResult{
		Coord: domain.Coordinates{Lat: 56.3287, Lon: 44.0020},
		Label: "Kremlin, Nizhny Novgorod",
	}

	if _, ok, err := c.Get(ctx, "kremlin"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, "kremlin", result); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := c.Get(ctx, "kremlin")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got.Label != result.Label || got.Coord != result.Coord {
		t.Fatalf("got %+v, want %+v", got, result)
	}
}

func TestSqliteGeocodeCacheRejectsEmptyAddress(t *testing.T) {
	c := NewSqliteGeocodeCache(newCacheDB(t))

	if _, _, err := c.Get(context.Background(), "  "); err == nil {
		t.Fatal("expected an error for an empty address")
	}
	if err := c.Put(context.Background(), "", ports.GeocodeResult{}); err == nil {
		t.Fatal("expected an error for an empty address")
	}
}
