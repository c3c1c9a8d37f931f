package services

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"itinerary-route-service/internal/hours"
	"itinerary-route-service/internal/ports"
	"log"
	"math"
	"sync"
	"time"
)

// Aligner walks an ordered candidate list with a monotonic time cursor,
// applying travel legs, opening windows and per-intensity padding.
type Aligner struct {
	Provider ports.RoutingProvider
	Resolver *hours.Resolver
}

// Input to a schedule alignment pass. POIs are already in visit order.
type ScheduleInput struct {
	Start         domain.Coordinates
	StartTime     time.Time
	BudgetMinutes int
	Intensity     domain.Intensity
	POIs          []*domain.POI
}

// Align produces timed stops and inter-stop legs for the ordered
// candidates. The cursor never decreases: arriving early waits for
// opening, running past closing truncates the visit. Appending stops
// ends once the next stop would exceed the time budget, but at least
// one stop is always kept.
//
// Legs covers consecutive stop pairs only (len == stops-1); the
// approach from the start point is recorded on the first stop's
// DistanceFromPrevKm.
func (a *Aligner) Align(ctx context.Context, in ScheduleInput) ([]domain.PlannedStop, []domain.Leg, []string, error) {
	if len(in.POIs) == 0 {
		return nil, nil, nil, nil
	}

	profile := in.Intensity.Profile()
	deadline := in.StartTime.Add(time.Duration(in.BudgetMinutes) * time.Minute)

	prefetched := a.prefetchLegs(ctx, in.Start, in.POIs)

	var (
		stops    []domain.PlannedStop
		legs     []domain.Leg
		warnings []string
	)

	cursor := in.StartTime
	prevCoord := in.Start
	prevSkipped := false
	trimmed := 0

	for i, poi := range in.POIs {
		if len(stops) > 0 && trimmed > 0 {
			trimmed++
			continue
		}

		leg := prefetched[i]
		if prevSkipped {
			// The prefetched leg originated at a skipped stop; re-route
			// from the last kept location.
			leg = a.leg(ctx, prevCoord, poi.Coord)
		}

		arrive := cursor.Add(minutesToDuration(leg.DurationMinutes))
		status := a.Resolver.Resolve(poi, arrive)

		if !status.IsOpen {
			warnings = append(warnings, fmt.Sprintf("%s is closed around %s - skipped", poi.Name, arrive.Format("15:04")))
			prevSkipped = true
			continue
		}

		visitStart := arrive
		note := ""
		if status.WaitMinutes > 0 {
			visitStart = arrive.Add(time.Duration(status.WaitMinutes) * time.Minute)
			note = fmt.Sprintf("opens at %s - short wait", visitStart.Format("15:04"))
		}

		visit := cappedVisitMinutes(poi, profile)
		leave := visitStart.Add(time.Duration(visit) * time.Minute)

		if !status.ClosesAt.IsZero() && leave.After(status.ClosesAt) {
			if status.ClosesAt.Before(visitStart) {
				warnings = append(warnings, fmt.Sprintf("%s closes before a visit could start - skipped", poi.Name))
				prevSkipped = true
				continue
			}
			leave = status.ClosesAt
			note = "closes soon - plan faster"
		}

		// Budget trim: stop once the next stop would run past the
		// deadline, keeping at least one stop.
		if leave.After(deadline) && len(stops) > 0 {
			trimmed = 1
			continue
		}

		if len(stops) > 0 {
			legs = append(legs, domain.Leg{
				DistanceKm:      leg.DistanceKm,
				DurationMinutes: leg.DurationMinutes,
				Geometry:        leg.Geometry,
			})
		}

		stops = append(stops, domain.PlannedStop{
			Order:              len(stops) + 1,
			POIID:              poi.ID,
			Name:               poi.Name,
			Coord:              poi.Coord,
			ArriveAt:           arrive,
			LeaveAt:            leave,
			IsOpen:             true,
			HoursLabel:         status.Label,
			AvailabilityNote:   note,
			Category:           poi.Category,
			DistanceFromPrevKm: leg.DistanceKm,
		})

		cursor = leave.Add(time.Duration(profile.TransitionPadMinutes) * time.Minute)
		prevCoord = poi.Coord
		prevSkipped = false
	}

	if trimmed > 0 {
		warnings = append(warnings, fmt.Sprintf("time budget trims %d stop(s) from the route", trimmed))
	}
	if len(stops) > 0 && stops[len(stops)-1].LeaveAt.After(deadline) {
		warnings = append(warnings, "route runs longer than requested")
	}

	return stops, legs, warnings, nil
}

// prefetchLegs fetches the consecutive-pair legs concurrently under a
// small semaphore before the cursor walk begins.
func (a *Aligner) prefetchLegs(ctx context.Context, start domain.Coordinates, pois []*domain.POI) []ports.LegResult {
	results := make([]ports.LegResult, len(pois))

	sem := make(chan struct{}, 4)
	var wg sync.WaitGroup

	for i := range pois {
		origin := start
		if i > 0 {
			origin = pois[i-1].Coord
		}
		dest := pois[i].Coord

		wg.Add(1)
		go func(idx int, from, to domain.Coordinates) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = a.leg(ctx, from, to)
		}(i, origin, dest)
	}

	wg.Wait()
	return results
}

// leg fetches one travel leg, substituting a deterministic haversine
// estimate when the provider fails. The fallback keeps alignment total:
// a leg lookup can degrade but never abort the request.
func (a *Aligner) leg(ctx context.Context, from, to domain.Coordinates) ports.LegResult {
	res, err := a.Provider.Leg(ctx, from, to)
	if err == nil {
		return res
	}
	log.Printf("schedule: leg lookup failed (%v), using straight-line estimate", err)

	d := geo.Haversine(from, to)
	return ports.LegResult{
		DistanceKm:      d,
		DurationMinutes: geo.WalkingMinutes(d),
		Geometry:        []domain.Coordinates{from, to},
	}
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(math.Round(minutes*60)) * time.Second
}
