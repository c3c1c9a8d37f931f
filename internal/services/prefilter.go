package services

import (
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"slices"
)

// DefaultMaxCandidates bounds the working set handed to the scorer.
const DefaultMaxCandidates = 60

// PrefilterCandidates bounds the candidate set by geographic proximity
// before any scoring happens.
//
// Candidates within 1.25x the intensity search radius are kept ahead of
// everything else; remaining capacity is backfilled with the closest of
// the far candidates. When the input already fits the cap it is
// returned unchanged, so nearby options are never dropped in favor of
// distant ones.
func PrefilterCandidates(pois []*domain.POI, start domain.Coordinates, intensity domain.Intensity, maxCandidates int) []*domain.POI {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if len(pois) <= maxCandidates {
		return pois
	}

	nearLimit := intensity.Profile().SearchRadiusKm * 1.25

	type withDistance struct {
		poi  *domain.POI
		dist float64
	}

	near := make([]withDistance, 0, len(pois))
	far := make([]withDistance, 0, len(pois))
	for _, p := range pois {
		d := geo.Haversine(start, p.Coord)
		if d <= nearLimit {
			near = append(near, withDistance{poi: p, dist: d})
		} else {
			far = append(far, withDistance{poi: p, dist: d})
		}
	}

	byDistance := func(a, b withDistance) int {
		if a.dist < b.dist {
			return -1
		}
		if a.dist > b.dist {
			return 1
		}
		// Tie-breaker keeps the result deterministic.
		if a.poi.ID < b.poi.ID {
			return -1
		}
		if a.poi.ID > b.poi.ID {
			return 1
		}
		return 0
	}
	slices.SortFunc(near, byDistance)
	slices.SortFunc(far, byDistance)

	out := make([]*domain.POI, 0, maxCandidates)
	for _, c := range near {
		if len(out) == maxCandidates {
			break
		}
		out = append(out, c.poi)
	}
	for _, c := range far {
		if len(out) == maxCandidates {
			break
		}
		out = append(out, c.poi)
	}

	return out
}
