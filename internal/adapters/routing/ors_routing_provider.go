package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"
	"net/http"
	"time"
)

// LegCache is the persistence boundary for routed legs. Writes must be
// idempotent: re-computing and overwriting a key is always safe.
type LegCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, leg ports.LegResult) error
}

// ORSRoutingProvider implements RoutingProvider using the
// OpenRouteService directions endpoint.
//
// It coordinates a persistent leg cache and external API calls with
// retry/backoff. The provider is safe for concurrent use.
type ORSRoutingProvider struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	profile  string
	legCache LegCache
}

func NewORSRoutingProvider(apiKey string, legCache LegCache) (*ORSRoutingProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRoutingProvider{
		session:  &http.Client{Timeout: 10 * time.Second},
		apiKey:   apiKey,
		baseURL:  "https://api.openrouteservice.org",
		profile:  "foot-walking",
		legCache: legCache,
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"` // meters
				Duration float64 `json:"duration"` // seconds
			} `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

// Leg returns the routed travel leg between two points, consulting the
// persistent cache before issuing an external call.
func (o *ORSRoutingProvider) Leg(ctx context.Context, origin, destination domain.Coordinates) (_ ports.LegResult, err error) {
	defer obs.Time(ctx, "ors.Leg")(&err)

	if o.legCache != nil {
		cached, ok, cacheErr := o.legCache.Get(ctx, origin, destination)
		if cacheErr != nil {
			return ports.LegResult{}, fmt.Errorf("ORS leg cache read: %w", cacheErr)
		}
		if ok {
			return cached, nil
		}
	}

	leg, err := o.fetchLeg(ctx, origin, destination)
	if err != nil {
		return ports.LegResult{}, err
	}

	if o.legCache != nil {
		if err := o.legCache.Put(ctx, origin, destination, leg); err != nil {
			log.Printf("leg cache write failed: %v", err)
		}
	}

	return leg, nil
}

func (o *ORSRoutingProvider) fetchLeg(ctx context.Context, origin, destination domain.Coordinates) (ports.LegResult, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	})
	if err != nil {
		return ports.LegResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.LegResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.LegResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.LegResult{}, errors.New("directions response has no routes")
	}
	feat := dr.Features[0]

	geometry := make([]domain.Coordinates, 0, len(feat.Geometry.Coordinates))
	for _, pair := range feat.Geometry.Coordinates {
		if len(pair) != 2 {
			return ports.LegResult{}, errors.New("directions geometry has malformed coordinates")
		}
		geometry = append(geometry, domain.Coordinates{Lon: pair[0], Lat: pair[1]})
	}
	if len(geometry) == 0 {
		geometry = []domain.Coordinates{origin, destination}
	}

	return ports.LegResult{
		DistanceKm:      feat.Properties.Summary.Distance / 1000,
		DurationMinutes: feat.Properties.Summary.Duration / 60,
		Geometry:        geometry,
	}, nil
}
