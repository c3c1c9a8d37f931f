package routing

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Km       float64
	Minutes  float64
}

// MockRoutingProvider serves canned legs for tests. Unknown pairs
// return an error so tests exercise fallback paths deliberately.
type MockRoutingProvider struct {
	m map[string]ports.LegResult
}

func coordKey(a, b domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", a.Lat, a.Lon, b.Lat, b.Lon)
}

func NewMockRoutingProvider(legs []MockLeg) *MockRoutingProvider {
	m := make(map[string]ports.LegResult, len(legs))
	for _, l := range legs {
		m[coordKey(l.From, l.To)] = ports.LegResult{
			DistanceKm:      l.Km,
			DurationMinutes: l.Minutes,
			Geometry:        []domain.Coordinates{l.From, l.To},
		}
	}
	return &MockRoutingProvider{m: m}
}

func (p *MockRoutingProvider) Leg(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, error) {
	r, ok := p.m[coordKey(origin, destination)]
	if !ok {
		return ports.LegResult{}, fmt.Errorf("missing leg %q", coordKey(origin, destination))
	}
	return r, nil
}
