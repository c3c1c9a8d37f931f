package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

// GeocodeCache is the persistence boundary for resolved addresses.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (ports.GeocodeResult, bool, error)
	Put(ctx context.Context, address string, result ports.GeocodeResult) error
}

// ORSGeocoder implements the Geocoder port using OpenRouteService
// forward geocoding, backed by a persistent cache. It reuses the
// routing provider's HTTP session, auth and retry policy.
type ORSGeocoder struct {
	provider *ORSRoutingProvider
	cache    GeocodeCache
}

func NewORSGeocoder(provider *ORSRoutingProvider, cache GeocodeCache) (*ORSGeocoder, error) {
	if provider == nil {
		return nil, errors.New("ORS geocoder: provider is nil")
	}
	return &ORSGeocoder{provider: provider, cache: cache}, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Resolve turns a free-form address into coordinates with a display
// label.
func (g *ORSGeocoder) Resolve(ctx context.Context, address string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	norm := normalize(address)
	if norm == "" {
		return ports.GeocodeResult{}, errors.New("geocode: address must be non-empty")
	}

	if g.cache != nil {
		cached, ok, cacheErr := g.cache.Get(ctx, norm)
		if cacheErr != nil {
			return ports.GeocodeResult{}, fmt.Errorf("geocode cache read: %w", cacheErr)
		}
		if ok {
			return cached, nil
		}
	}

	endpoint := g.provider.baseURL + "/geocode/search"

	resp, err := g.provider.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.provider.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return ports.GeocodeResult{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	result := ports.GeocodeResult{
		Coord: domain.Coordinates{Lon: coords[0], Lat: coords[1]},
		Label: decoded.Features[0].Properties.Label,
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, result); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return result, nil
}
