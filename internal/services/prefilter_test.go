package services

import (
	"fmt"
	"testing"

	"itinerary-route-service/internal/domain"
)

func poiAt(id string, lat, lon float64) *domain.POI {
	return &domain.POI{
		ID:       id,
		Name:     id,
		Coord:    domain.Coordinates{Lat: lat, Lon: lon},
		Category: "monument",
	}
}

func TestPrefilterReturnsInputWhenUnderCap(t *testing.T) {
	start := domain.Coordinates{Lat: 56.3287, Lon: 44.0020}
	pois := []*domain.POI{
		poiAt("a", 56.3290, 44.0025),
		poiAt("b", 56.3300, 44.0100),
	}

	got := PrefilterCandidates(pois, start, domain.IntensityMedium, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != pois[0] || got[1] != pois[1] {
		t.Fatal("input under cap should be returned unchanged")
	}
}

func TestPrefilterKeepsNearCandidatesFirst(t *testing.T) {
	start := domain.Coordinates{Lat: 56.3287, Lon: 44.0020}

	// Two candidates well inside the medium radius; the rest roughly a
	// degree of latitude away (over 100 km).
	pois := []*domain.POI{
		poiAt("near-2", 56.3310, 44.0060),
		poiAt("near-1", 56.3290, 44.0025),
	}
	for i := 0; i < 10; i++ {
		pois = append(pois, poiAt(fmt.Sprintf("far-%02d", i), 57.3+float64(i)*0.01, 44.0))
	}

	got := PrefilterCandidates(pois, start, domain.IntensityMedium, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].ID != "near-1" || got[1].ID != "near-2" {
		t.Fatalf("near candidates should lead, got %s, %s", got[0].ID, got[1].ID)
	}
	if got[2].ID != "far-00" || got[3].ID != "far-01" {
		t.Fatalf("remaining capacity should backfill closest far candidates, got %s, %s", got[2].ID, got[3].ID)
	}
}

func TestPrefilterZeroCapUsesDefault(t *testing.T) {
	start := domain.Coordinates{Lat: 56.3287, Lon: 44.0020}

	pois := make([]*domain.POI, 0, DefaultMaxCandidates+20)
	for i := 0; i < DefaultMaxCandidates+20; i++ {
		pois = append(pois, poiAt(fmt.Sprintf("p-%03d", i), 56.3+float64(i)*0.001, 44.0))
	}

	got := PrefilterCandidates(pois, start, domain.IntensityMedium, 0)
	if len(got) != DefaultMaxCandidates {
		t.Fatalf("len = %d, want %d", len(got), DefaultMaxCandidates)
	}
}
