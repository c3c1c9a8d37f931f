package services

import (
	"context"
	"testing"
	"time"

	"itinerary-route-service/internal/adapters/routing"
	"itinerary-route-service/internal/domain"
)

// fixedLocator always returns the same break spot.
type fixedLocator struct {
	spot *domain.POI
}

func (l *fixedLocator) NearestBreakSpot(_ context.Context, _ domain.Coordinates, _ float64) (*domain.POI, error) {
	return l.spot, nil
}

func TestRecommendedInterval(t *testing.T) {
	cases := []struct {
		intensity domain.Intensity
		override  int
		want      time.Duration
	}{
		{domain.IntensityRelaxed, 0, 75 * time.Minute},
		{domain.IntensityMedium, 0, 90 * time.Minute},
		{domain.IntensityIntense, 0, 120 * time.Minute},
		{domain.IntensityMedium, 150, 150 * time.Minute},
		{domain.IntensityMedium, 20, 90 * time.Minute}, // below the default is ignored
	}
	for _, c := range cases {
		if got := recommendedInterval(c.intensity, c.override); got != c.want {
			t.Fatalf("interval(%s, %d) = %s, want %s", c.intensity, c.override, got, c.want)
		}
	}
}

func TestInsertBreaksSplicesAfterThresholdAndShiftsTimeline(t *testing.T) {
	startTime := monday(10, 0)
	stop1Coord := domain.Coordinates{Lat: 56.321, Lon: 44.001}
	stop2Coord := domain.Coordinates{Lat: 56.324, Lon: 44.004}
	cafeCoord := domain.Coordinates{Lat: 56.3215, Lon: 44.0015}

	// The first stop ends 95 minutes into a medium (90-minute cadence)
	// route, crossing the break threshold.
	stops := []domain.PlannedStop{
		{Order: 1, POIID: "a", Name: "A", Coord: stop1Coord, Category: "museum",
			ArriveAt: monday(10, 10), LeaveAt: monday(11, 35), IsOpen: true, DistanceFromPrevKm: 0.7},
		{Order: 2, POIID: "b", Name: "B", Coord: stop2Coord, Category: "park",
			ArriveAt: monday(11, 45), LeaveAt: monday(12, 15), IsOpen: true, DistanceFromPrevKm: 0.6},
	}
	legs := []domain.Leg{
		{DistanceKm: 0.6, DurationMinutes: 10, Geometry: []domain.Coordinates{stop1Coord, stop2Coord}},
	}

	cafe := &domain.POI{ID: "cafe-1", Name: "Corner Cafe", Category: "cafe", Coord: cafeCoord}
	provider := routing.NewMockRoutingProvider([]routing.MockLeg{
		{From: stop1Coord, To: cafeCoord, Km: 0.2, Minutes: 3},
		{From: cafeCoord, To: stop2Coord, Km: 0.3, Minutes: 4},
	})

	b := &BreakInserter{Locator: &fixedLocator{spot: cafe}, Provider: provider}
	req := domain.PlanRequest{
		StartTime:     startTime,
		BudgetMinutes: 360,
		Intensity:     domain.IntensityMedium,
	}

	outStops, outLegs := b.InsertBreaks(context.Background(), stops, legs, req)

	if len(outStops) != 3 {
		t.Fatalf("stops = %d, want 3 (break spliced in)", len(outStops))
	}
	if len(outLegs) != 2 {
		t.Fatalf("legs = %d, want 2 (leg to break, leg onward)", len(outLegs))
	}

	brk := outStops[1]
	if !brk.IsBreak || brk.POIID != "cafe-1" {
		t.Fatalf("middle stop = %+v, want the cafe break", brk)
	}
	if !brk.ArriveAt.Equal(monday(11, 38)) {
		t.Fatalf("break arrive = %s, want 11:38", brk.ArriveAt.Format("15:04"))
	}
	if !brk.LeaveAt.Equal(monday(11, 53)) {
		t.Fatalf("break leave = %s, want 11:53 (15-minute medium break)", brk.LeaveAt.Format("15:04"))
	}

	// Downstream shift: 3 to + 15 visit + 4 onward - 10 original = 12.
	next := outStops[2]
	if !next.ArriveAt.Equal(monday(11, 57)) {
		t.Fatalf("next arrive = %s, want 11:57", next.ArriveAt.Format("15:04"))
	}
	if !next.LeaveAt.Equal(monday(12, 27)) {
		t.Fatalf("next leave = %s, want 12:27", next.LeaveAt.Format("15:04"))
	}
	if next.DistanceFromPrevKm != 0.3 {
		t.Fatalf("next approach = %v, want the re-routed 0.3", next.DistanceFromPrevKm)
	}

	for i, s := range outStops {
		if s.Order != i+1 {
			t.Fatalf("stop %d has order %d after reindexing", i, s.Order)
		}
	}
}

func TestInsertBreaksRespectsBudgetDeadline(t *testing.T) {
	stop1Coord := domain.Coordinates{Lat: 56.321, Lon: 44.001}
	cafeCoord := domain.Coordinates{Lat: 56.3215, Lon: 44.0015}

	stops := []domain.PlannedStop{
		{Order: 1, POIID: "a", Name: "A", Coord: stop1Coord, Category: "museum",
			ArriveAt: monday(10, 10), LeaveAt: monday(11, 35), IsOpen: true},
	}

	cafe := &domain.POI{ID: "cafe-1", Name: "Corner Cafe", Category: "cafe", Coord: cafeCoord}
	provider := routing.NewMockRoutingProvider([]routing.MockLeg{
		{From: stop1Coord, To: cafeCoord, Km: 0.2, Minutes: 3},
	})

	b := &BreakInserter{Locator: &fixedLocator{spot: cafe}, Provider: provider}
	req := domain.PlanRequest{
		StartTime:     monday(10, 0),
		BudgetMinutes: 100, // deadline 11:40; break would end 11:53
		Intensity:     domain.IntensityMedium,
	}

	outStops, outLegs := b.InsertBreaks(context.Background(), stops, nil, req)
	if len(outStops) != 1 {
		t.Fatalf("stops = %d, want 1 (break past deadline not inserted)", len(outStops))
	}
	if len(outLegs) != 0 {
		t.Fatalf("legs = %d, want 0", len(outLegs))
	}
}

func TestInsertBreaksNoThresholdCrossing(t *testing.T) {
	stop1Coord := domain.Coordinates{Lat: 56.321, Lon: 44.001}

	stops := []domain.PlannedStop{
		{Order: 1, POIID: "a", Name: "A", Coord: stop1Coord, Category: "museum",
			ArriveAt: monday(10, 10), LeaveAt: monday(10, 50), IsOpen: true},
	}

	b := &BreakInserter{
		Locator:  &fixedLocator{spot: &domain.POI{ID: "cafe-1", Category: "cafe"}},
		Provider: routing.NewMockRoutingProvider(nil),
	}
	req := domain.PlanRequest{
		StartTime:     monday(10, 0),
		BudgetMinutes: 240,
		Intensity:     domain.IntensityMedium,
	}

	outStops, _ := b.InsertBreaks(context.Background(), stops, nil, req)
	if len(outStops) != 1 {
		t.Fatalf("stops = %d, want 1 (50 elapsed minutes is under the 90-minute cadence)", len(outStops))
	}
}

func TestInsertBreaksNilLocatorIsNoop(t *testing.T) {
	stops := []domain.PlannedStop{{Order: 1, POIID: "a"}}
	b := &BreakInserter{Provider: routing.NewMockRoutingProvider(nil)}

	outStops, outLegs := b.InsertBreaks(context.Background(), stops, nil, domain.PlanRequest{
		StartTime: monday(10, 0), BudgetMinutes: 240, Intensity: domain.IntensityMedium,
	})
	if len(outStops) != 1 || outLegs != nil {
		t.Fatal("nil locator should leave the schedule untouched")
	}
}
