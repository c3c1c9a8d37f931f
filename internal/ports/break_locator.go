package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Contract for finding the nearest qualifying break stop (e.g. a cafe)
// within a radius of a point. A nil result with nil error means no
// candidate was found; callers treat that as non-fatal.
type BreakLocator interface {
	NearestBreakSpot(ctx context.Context, near domain.Coordinates, radiusKm float64) (*domain.POI, error)
}
