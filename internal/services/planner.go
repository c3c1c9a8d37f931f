package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/hours"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"math"
	"time"
)

// User-facing planning failures. Everything else degrades to a
// fallback and surfaces as a warning instead.
var (
	ErrNoCandidates    = errors.New("no POIs matched the requested filters and time windows")
	ErrRouteInfeasible = errors.New("no stop fits within the requested time budget")
	ErrStartUnresolved = errors.New("start location could not be resolved")
)

// Categories that make no sense before a given hour regardless of
// their opening windows.
var categoryEarliestHour = map[string]int{
	"cafe":       9,
	"restaurant": 11,
	"bar":        17,
}

// Planner orchestrates the full pipeline: prefilter, scoring,
// time-window filtering, sequencing, schedule alignment, break
// insertion and aggregation.
type Planner struct {
	Catalog  ports.POICatalog
	Provider ports.RoutingProvider
	Resolver *hours.Resolver

	// Breaks is optional; nil disables break insertion.
	Breaks *BreakInserter

	// MaxCandidates caps the prefiltered working set; zero means the
	// package default.
	MaxCandidates int
}

// Plan computes an itinerary for the request. It returns either a
// complete (possibly degraded) itinerary with warnings, or one of the
// sentinel user errors.
func (pl *Planner) Plan(ctx context.Context, req domain.PlanRequest) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	if req.BudgetMinutes <= 0 {
		return nil, fmt.Errorf("plan itinerary: budget must be positive, got %d", req.BudgetMinutes)
	}

	pois, err := pl.Catalog.Query(ctx, req.Categories)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: query catalog: %w", err)
	}
	if len(pois) == 0 {
		return nil, ErrNoCandidates
	}

	pois = PrefilterCandidates(pois, req.Start, req.Intensity, pl.MaxCandidates)

	ranked := RankCandidates(req, pois)
	selected := pl.filterByTimeWindows(ranked, req)
	if len(selected) == 0 {
		return nil, ErrNoCandidates
	}

	points := make([]domain.Coordinates, len(selected))
	for i, p := range selected {
		points[i] = p.Coord
	}
	order := OrderByDistance(req.Start, points)

	ordered := make([]*domain.POI, len(order))
	for i, idx := range order {
		ordered[i] = selected[idx]
	}

	aligner := &Aligner{Provider: pl.Provider, Resolver: pl.Resolver}
	stops, legs, warnings, err := aligner.Align(ctx, ScheduleInput{
		Start:         req.Start,
		StartTime:     req.StartTime,
		BudgetMinutes: req.BudgetMinutes,
		Intensity:     req.Intensity,
		POIs:          ordered,
	})
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: align schedule: %w", err)
	}
	if len(stops) == 0 {
		return nil, ErrRouteInfeasible
	}

	if pl.Breaks != nil {
		stops, legs = pl.Breaks.InsertBreaks(ctx, stops, legs, req)
	}

	itin := &domain.Itinerary{
		Stops:    stops,
		Legs:     legs,
		Warnings: warnings,
	}
	for _, s := range stops {
		itin.TotalDistanceKm += s.DistanceFromPrevKm
	}
	itin.TotalDistanceKm = roundKm(itin.TotalDistanceKm)
	last := stops[len(stops)-1]
	itin.TotalMinutes = int(last.LeaveAt.Sub(req.StartTime) / time.Minute)

	return itin, nil
}

// filterByTimeWindows drops ranked candidates that are infeasible at
// their projected arrival: closed beyond the wait allowance, or in a
// category excluded at that hour. Selection also stops once projected
// arrivals run past the time budget; at least one candidate survives
// when any was ranked.
func (pl *Planner) filterByTimeWindows(ranked []CandidateScore, req domain.PlanRequest) []*domain.POI {
	deadline := req.StartTime.Add(time.Duration(req.BudgetMinutes) * time.Minute)

	// Cap the selection so the sequencer input stays small: the budget
	// can never fit more stops than its minute count divided by the
	// fastest plausible stop.
	maxStops := req.BudgetMinutes/20 + 1
	if maxStops > 24 {
		maxStops = 24
	}

	var out []*domain.POI
	for _, c := range ranked {
		if len(out) >= maxStops {
			break
		}
		if len(out) > 0 && c.ProjectedArrival.After(deadline) {
			continue
		}

		if earliest, ok := categoryEarliestHour[c.POI.Category]; ok && c.ProjectedArrival.Hour() < earliest {
			continue
		}

		if st := pl.Resolver.Resolve(c.POI, c.ProjectedArrival); !st.IsOpen {
			continue
		}

		out = append(out, c.POI)
	}
	return out
}

// roundKm keeps reported distances stable across float formatting.
func roundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}
