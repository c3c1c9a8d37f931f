package services

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"log"
	"time"
)

// minBreakIntervalMinutes is the floor below which no break cadence is
// ever allowed to fall.
const minBreakIntervalMinutes = 30

// breakSearchRadiusKm bounds the lookup for a qualifying break spot
// around the stop that crossed the threshold.
const breakSearchRadiusKm = 0.8

// BreakInserter adds supplementary stops (cafes and similar) into a
// finished timeline based on elapsed time since the last break.
type BreakInserter struct {
	Locator  ports.BreakLocator
	Provider ports.RoutingProvider
}

// breakVisitMinutes derives a short visit duration for a break stop.
func breakVisitMinutes(intensity domain.Intensity) int {
	if intensity == domain.IntensityRelaxed {
		return 20
	}
	return 15
}

// recommendedInterval resolves the break cadence: the intensity default,
// overridden upward by explicit preference, never below the floor.
func recommendedInterval(intensity domain.Intensity, overrideMinutes int) time.Duration {
	interval := intensity.Profile().BreakIntervalMinutes
	if overrideMinutes > interval {
		interval = overrideMinutes
	}
	if interval < minBreakIntervalMinutes {
		interval = minBreakIntervalMinutes
	}
	return time.Duration(interval) * time.Minute
}

// InsertBreaks walks the schedule and, whenever elapsed time since the
// last break reaches the recommended interval, tries to splice in the
// nearest qualifying break spot. A failed or empty lookup is skipped
// silently and re-attempted at the next threshold crossing. Breaks that
// would run past the time budget are not inserted.
func (b *BreakInserter) InsertBreaks(ctx context.Context, stops []domain.PlannedStop, legs []domain.Leg, req domain.PlanRequest) ([]domain.PlannedStop, []domain.Leg) {
	if b == nil || b.Locator == nil || len(stops) == 0 {
		return stops, legs
	}

	interval := recommendedInterval(req.Intensity, req.BreakIntervalMinutes)
	deadline := req.StartTime.Add(time.Duration(req.BudgetMinutes) * time.Minute)
	visit := breakVisitMinutes(req.Intensity)

	out := make([]domain.PlannedStop, 0, len(stops)+2)
	outLegs := make([]domain.Leg, 0, len(legs)+4)

	lastBreakEnd := req.StartTime
	var shift time.Duration
	reroutedPrevKm := -1.0

	for i, s := range stops {
		s.ArriveAt = s.ArriveAt.Add(shift)
		s.LeaveAt = s.LeaveAt.Add(shift)
		if reroutedPrevKm >= 0 {
			// The incoming leg was re-routed through a break spot.
			s.DistanceFromPrevKm = reroutedPrevKm
			reroutedPrevKm = -1
		}
		out = append(out, s)

		legConsumed := false
		if s.LeaveAt.Sub(lastBreakEnd) >= interval {
			spot, err := b.Locator.NearestBreakSpot(ctx, s.Coord, breakSearchRadiusKm)
			if err != nil {
				log.Printf("breaks: lookup near stop %s failed: %v", s.POIID, err)
			}
			if err == nil && spot != nil {
				legTo, legErr := b.Provider.Leg(ctx, s.Coord, spot.Coord)
				if legErr != nil {
					log.Printf("breaks: leg to %s failed: %v", spot.ID, legErr)
				} else {
					arrive := s.LeaveAt.Add(minutesToDuration(legTo.DurationMinutes))
					leave := arrive.Add(time.Duration(visit) * time.Minute)

					if !leave.After(deadline) {
						out = append(out, domain.PlannedStop{
							POIID:              spot.ID,
							Name:               spot.Name,
							Coord:              spot.Coord,
							ArriveAt:           arrive,
							LeaveAt:            leave,
							IsOpen:             true,
							HoursLabel:         "",
							AvailabilityNote:   "break stop",
							IsBreak:            true,
							Category:           spot.Category,
							DistanceFromPrevKm: legTo.DistanceKm,
						})

						outLegs = append(outLegs, domain.Leg{
							DistanceKm:      legTo.DistanceKm,
							DurationMinutes: legTo.DurationMinutes,
							Geometry:        legTo.Geometry,
						})

						// Elapsed counter resets at the break's leave time.
						lastBreakEnd = leave

						if i < len(legs) {
							// Re-route the onward leg from the break spot and
							// shift everything downstream by the added time.
							next := stops[i+1]
							legFrom, fromErr := b.Provider.Leg(ctx, spot.Coord, next.Coord)
							if fromErr != nil {
								log.Printf("breaks: leg from %s failed: %v", spot.ID, fromErr)
								legFrom = ports.LegResult{
									DistanceKm:      legs[i].DistanceKm,
									DurationMinutes: legs[i].DurationMinutes,
									Geometry:        legs[i].Geometry,
								}
							}

							added := minutesToDuration(legTo.DurationMinutes) +
								time.Duration(visit)*time.Minute +
								minutesToDuration(legFrom.DurationMinutes) -
								minutesToDuration(legs[i].DurationMinutes)
							shift += added

							outLegs = append(outLegs, domain.Leg{
								DistanceKm:      legFrom.DistanceKm,
								DurationMinutes: legFrom.DurationMinutes,
								Geometry:        legFrom.Geometry,
							})
							reroutedPrevKm = legFrom.DistanceKm
							legConsumed = true
						}
					}
				}
			}
		}

		if !legConsumed && i < len(legs) {
			outLegs = append(outLegs, legs[i])
		}
	}

	for i := range out {
		out[i].Order = i + 1
	}
	return out, outLegs
}
