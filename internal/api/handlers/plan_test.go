package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itinerary-route-service/internal/adapters/explain"
	"itinerary-route-service/internal/adapters/routing"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/hours"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/services"
)

type stubCatalog struct {
	pois []*domain.POI
}

func (s *stubCatalog) Query(_ context.Context, _ []string) ([]*domain.POI, error) {
	return s.pois, nil
}

type stubGeocoder struct {
	result ports.GeocodeResult
	err    error
}

func (s *stubGeocoder) Resolve(_ context.Context, _ string) (ports.GeocodeResult, error) {
	return s.result, s.err
}

func testHandler(pois []*domain.POI) *ItineraryHandler {
	return &ItineraryHandler{
		Planner: &services.Planner{
			Catalog:  &stubCatalog{pois: pois},
			Provider: routing.NewHaversineRoutingProvider(),
			Resolver: hours.NewResolver(),
		},
		Explainer: explain.NewTemplateExplainer(),
	}
}

func openPOIs() []*domain.POI {
	return []*domain.POI{
		{ID: "tower", Name: "Old Tower", Category: "monument",
			Coord: domain.Coordinates{Lat: 56.3290, Lon: 44.0025}, Rating: 4.6, VisitMinutes: 30},
		{ID: "lookout", Name: "River Lookout", Category: "viewpoint",
			Coord: domain.Coordinates{Lat: 56.3310, Lon: 44.0060}, Rating: 4.4, VisitMinutes: 25},
	}
}

func postPlan(t *testing.T, h *ItineraryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)
	return rec
}

const validBody = `{
	"start": {"lat": 56.3287, "lon": 44.0020},
	"start_time": "2026-08-24T10:00:00Z",
	"budget_minutes": 240,
	"intensity": "medium",
	"social": "solo"
}`

func TestPlanEndpointSuccess(t *testing.T) {
	rec := postPlan(t, testHandler(openPOIs()), validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.ItineraryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(res.Stops))
	}
	if len(res.Legs) != 1 {
		t.Fatalf("legs = %d, want 1", len(res.Legs))
	}
	if res.Explanation == nil || res.Explanation.Summary == "" {
		t.Fatal("expected a templated explanation")
	}
}

func TestPlanEndpointMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
	rec := httptest.NewRecorder()
	testHandler(nil).Plan(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestPlanEndpointRejectsMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{"start": `,
		"unknown field":    `{"budget_minutes": 60, "start": {"lat": 1, "lon": 2}, "surprise": true}`,
		"trailing object":  `{"budget_minutes": 60, "start": {"lat": 1, "lon": 2}} {}`,
		"zero budget":      `{"start": {"lat": 1, "lon": 2}}`,
		"huge budget":      `{"budget_minutes": 100000, "start": {"lat": 1, "lon": 2}}`,
		"bad intensity":    `{"budget_minutes": 60, "start": {"lat": 1, "lon": 2}, "intensity": "frantic"}`,
		"bad social":       `{"budget_minutes": 60, "start": {"lat": 1, "lon": 2}, "social": "crowd"}`,
		"no start":         `{"budget_minutes": 60}`,
		"lat out of range": `{"budget_minutes": 60, "start": {"lat": 123.0, "lon": 2}}`,
	}

	h := testHandler(openPOIs())
	for name, body := range cases {
		if rec := postPlan(t, h, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400 (body %s)", name, rec.Code, rec.Body.String())
		}
	}
}

func TestPlanEndpointNoCandidates(t *testing.T) {
	rec := postPlan(t, testHandler(nil), validBody)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestPlanEndpointGeocodesAddress(t *testing.T) {
	h := testHandler(openPOIs())
	h.Geocoder = &stubGeocoder{result: ports.GeocodeResult{
		Coord: domain.Coordinates{Lat: 56.3287, Lon: 44.0020},
		Label: "Kremlin, Nizhny Novgorod",
	}}

	body := `{
		"address": "Kremlin, Nizhny Novgorod",
		"start_time": "2026-08-24T10:00:00Z",
		"budget_minutes": 240
	}`
	rec := postPlan(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestPlanEndpointUnresolvableAddress(t *testing.T) {
	h := testHandler(openPOIs())
	// No geocoder configured: an address cannot be resolved at all.
	body := `{"address": "nowhere in particular", "budget_minutes": 60}`

	rec := postPlan(t, h, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
