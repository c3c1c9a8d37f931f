package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Travel distance, duration and geometry between two points.
type LegResult struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        []domain.Coordinates
}

// Contract for retrieving a routed travel leg between two points.
type RoutingProvider interface {
	// Return the travel leg from origin to destination.
	Leg(ctx context.Context, origin, destination domain.Coordinates) (LegResult, error)
}
