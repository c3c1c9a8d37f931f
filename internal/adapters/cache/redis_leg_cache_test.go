package cache

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisLegCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLegCache(client, time.Hour), mr
}

func TestRedisLegCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	origin := domain.Coordinates{Lat: 56.3287, Lon: 44.0020}
	dest := domain.Coordinates{Lat: 56.3269, Lon: 44.0042}
	leg := ports.LegResult{
		DistanceKm:      0.24,
		DurationMinutes: 3.2,
		Geometry:        []domain.Coordinates{origin, dest},
	}

	if _, ok, err := c.Get(ctx, origin, dest); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, origin, dest, leg); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := c.Get(ctx, origin, dest)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got.DistanceKm != leg.DistanceKm || got.DurationMinutes != leg.DurationMinutes {
		t.Fatalf("got %+v, want %+v", got, leg)
	}
	if len(got.Geometry) != 2 {
		t.Fatalf("geometry length = %d, want 2", len(got.Geometry))
	}
}

func TestRedisLegCacheOverwriteIsIdempotent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	origin := domain.Coordinates{Lat: 1, Lon: 2}
	dest := domain.Coordinates{Lat: 3, Lon: 4}

	first := ports.LegResult{DistanceKm: 1.0, DurationMinutes: 13}
	second := ports.LegResult{DistanceKm: 1.1, DurationMinutes: 14}

	if err := c.Put(ctx, origin, dest, first); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	if err := c.Put(ctx, origin, dest, second); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, ok, err := c.Get(ctx, origin, dest)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got.DistanceKm != second.DistanceKm {
		t.Fatalf("distance = %v, want the overwritten value %v", got.DistanceKm, second.DistanceKm)
	}
}

func TestRedisLegCacheEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	origin := domain.Coordinates{Lat: 1, Lon: 2}
	dest := domain.Coordinates{Lat: 3, Lon: 4}

	if err := c.Put(ctx, origin, dest, ports.LegResult{DistanceKm: 1}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, ok, err := c.Get(ctx, origin, dest); err != nil || ok {
		t.Fatalf("expected expiry, got ok=%v err=%v", ok, err)
	}
}
