package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"itinerary-route-service/internal/api/dto"
)

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	rec = httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestListPOIs(t *testing.T) {
	h := &POIHandler{Catalog: &stubCatalog{pois: openPOIs()}}

	req := httptest.NewRequest(http.MethodGet, "/pois", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.ListPOIsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.POIs) != 2 {
		t.Fatalf("pois = %d, want 2", len(res.POIs))
	}
	if res.POIs[0].POIID != "tower" {
		t.Fatalf("first poi = %s, want tower", res.POIs[0].POIID)
	}
}

func TestListPOIsMethodNotAllowed(t *testing.T) {
	h := &POIHandler{Catalog: &stubCatalog{}}

	req := httptest.NewRequest(http.MethodDelete, "/pois", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
