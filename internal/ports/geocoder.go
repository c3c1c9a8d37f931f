package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// A resolved address with its display label.
type GeocodeResult struct {
	Coord domain.Coordinates
	Label string
}

// Contract for resolving free-form addresses to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (GeocodeResult, error)
}
