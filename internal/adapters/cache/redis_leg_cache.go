package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLegCache is a TTL-bounded leg cache for deployments where the
// cache is shared between instances. Writes are idempotent: concurrent
// requests recomputing the same leg overwrite each other safely.
type RedisLegCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisLegCache(client *redis.Client, ttl time.Duration) *RedisLegCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLegCache{Client: client, TTL: ttl}
}

func legKey(origin, destination domain.Coordinates) string {
	return fmt.Sprintf("leg:%s|%s", pointKey(origin), pointKey(destination))
}

// cachedLeg is the stored wire form of a routed leg.
type cachedLeg struct {
	DistanceKm      float64              `json:"distance_km"`
	DurationMinutes float64              `json:"duration_minutes"`
	Geometry        []domain.Coordinates `json:"geometry"`
}

func (r *RedisLegCache) Get(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, bool, error) {
	if r.Client == nil {
		return ports.LegResult{}, false, errors.New("redis leg cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, legKey(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.LegResult{}, false, nil
	}
	if err != nil {
		return ports.LegResult{}, false, fmt.Errorf("get redis leg cache: %w", err)
	}

	var leg cachedLeg
	if err := json.Unmarshal([]byte(raw), &leg); err != nil {
		return ports.LegResult{}, false, fmt.Errorf("get redis leg cache: decode: %w", err)
	}

	return ports.LegResult{
		DistanceKm:      leg.DistanceKm,
		DurationMinutes: leg.DurationMinutes,
		Geometry:        leg.Geometry,
	}, true, nil
}

func (r *RedisLegCache) Put(ctx context.Context, origin, destination domain.Coordinates, leg ports.LegResult) error {
	if r.Client == nil {
		return errors.New("redis leg cache: client is nil")
	}

	raw, err := json.Marshal(cachedLeg{
		DistanceKm:      leg.DistanceKm,
		DurationMinutes: leg.DurationMinutes,
		Geometry:        leg.Geometry,
	})
	if err != nil {
		return fmt.Errorf("insert redis leg cache: encode: %w", err)
	}

	if err := r.Client.Set(ctx, legKey(origin, destination), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert redis leg cache: %w", err)
	}
	return nil
}
