package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Contract for fetching a point-in-time weather snapshot.
// Used only as a scoring input; callers must tolerate failure.
type WeatherProvider interface {
	Snapshot(ctx context.Context, at domain.Coordinates) (*domain.WeatherSnapshot, error)
}
