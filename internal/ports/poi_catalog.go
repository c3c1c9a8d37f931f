package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Port: a boundary for retrieving POI entities from the catalog.
type POICatalog interface {
	// Retrieve POIs, optionally restricted to the given categories.
	Query(ctx context.Context, categories []string) ([]*domain.POI, error)
}
