package routing

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"log"
)

// FallbackRoutingProvider tries the primary provider and degrades to
// the fallback on any error. The failure is logged, never surfaced:
// a routed leg can degrade but must not abort the request.
type FallbackRoutingProvider struct {
	Primary  ports.RoutingProvider
	Fallback ports.RoutingProvider
}

func NewFallbackRoutingProvider(primary, fallback ports.RoutingProvider) *FallbackRoutingProvider {
	return &FallbackRoutingProvider{Primary: primary, Fallback: fallback}
}

func (f *FallbackRoutingProvider) Leg(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, error) {
	if f.Primary != nil {
		res, err := f.Primary.Leg(ctx, origin, destination)
		if err == nil {
			return res, nil
		}
		log.Printf("routing: primary provider failed (%v), using fallback", err)
	}
	return f.Fallback.Leg(ctx, origin, destination)
}
