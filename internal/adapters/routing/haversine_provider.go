package routing

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"itinerary-route-service/internal/ports"
)

// HaversineRoutingProvider estimates legs from great-circle distance
// and a fixed average walking speed, with straight-line geometry.
// It is deterministic and never fails, which makes it the terminal
// case in the routing fallback chain.
type HaversineRoutingProvider struct{}

func NewHaversineRoutingProvider() *HaversineRoutingProvider {
	return &HaversineRoutingProvider{}
}

func (h *HaversineRoutingProvider) Leg(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, error) {
	d := geo.Haversine(origin, destination)
	return ports.LegResult{
		DistanceKm:      d,
		DurationMinutes: geo.WalkingMinutes(d),
		Geometry:        []domain.Coordinates{origin, destination},
	}, nil
}
