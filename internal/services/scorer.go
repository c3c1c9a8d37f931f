package services

import (
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"math"
	"time"
)

// CandidateScore is the per-request scoring record for one POI. It is
// created during ranking and discarded after sequencing.
type CandidateScore struct {
	POI *domain.POI

	EmbeddingComponent  float64
	ContextualComponent float64
	PopularityComponent float64
	DiversityPenalty    float64
	FinalScore          float64

	DistanceFromStartKm float64

	// ProjectedArrival is a rough cursor estimate used only during
	// scoring; the schedule aligner computes the real timeline.
	ProjectedArrival time.Time
}

// defaultEmbeddingScore is used when either side of the similarity
// computation has no vector.
const defaultEmbeddingScore = 55

type timeBucket string

const (
	bucketEarlyMorning timeBucket = "early_morning"
	bucketMorning      timeBucket = "morning"
	bucketLunch        timeBucket = "lunch"
	bucketDay          timeBucket = "day"
	bucketEvening      timeBucket = "evening"
	bucketNight        timeBucket = "night"
)

func bucketFor(t time.Time) timeBucket {
	switch h := t.Hour(); {
	case h < 8:
		return bucketEarlyMorning
	case h < 11:
		return bucketMorning
	case h < 14:
		return bucketLunch
	case h < 17:
		return bucketDay
	case h < 21:
		return bucketEvening
	default:
		return bucketNight
	}
}

// Alignment of categories with coarse time-of-day buckets. Missing
// categories use the per-bucket default.
var timePhaseTable = map[timeBucket]map[string]float64{
	bucketEarlyMorning: {"park": 1.0, "cafe": 0.9, "church": 0.8, "market": 0.7},
	bucketMorning:      {"museum": 1.0, "gallery": 0.9, "park": 0.9, "market": 0.85, "church": 0.8},
	bucketLunch:        {"restaurant": 1.1, "cafe": 1.0, "market": 0.8},
	bucketDay:          {"museum": 1.0, "gallery": 1.0, "park": 0.95, "monument": 0.9, "viewpoint": 0.9},
	bucketEvening:      {"restaurant": 1.0, "theatre": 1.0, "bar": 0.95, "viewpoint": 0.85},
	bucketNight:        {"bar": 1.1, "theatre": 0.9, "restaurant": 0.8},
}

var timePhaseDefault = map[timeBucket]float64{
	bucketEarlyMorning: 0.5,
	bucketMorning:      0.7,
	bucketLunch:        0.65,
	bucketDay:          0.8,
	bucketEvening:      0.7,
	bucketNight:        0.4,
}

var indoorCategories = map[string]struct{}{
	"museum": {}, "gallery": {}, "theatre": {}, "restaurant": {},
	"cafe": {}, "bar": {}, "church": {},
}

var outdoorCategories = map[string]struct{}{
	"park": {}, "viewpoint": {}, "monument": {}, "square": {},
	"street": {}, "garden": {},
}

// Per-social-mode category preferences with a default fallback.
var socialTable = map[domain.SocialMode]map[string]float64{
	domain.SocialSolo:    {"museum": 0.95, "gallery": 0.95, "cafe": 0.9, "viewpoint": 0.9},
	domain.SocialCouple:  {"restaurant": 1.0, "viewpoint": 1.0, "theatre": 0.95, "park": 0.9, "bar": 0.9},
	domain.SocialFamily:  {"park": 1.0, "museum": 0.9, "market": 0.85, "monument": 0.8, "bar": 0.3},
	domain.SocialFriends: {"bar": 1.0, "market": 0.9, "restaurant": 0.9, "street": 0.85},
}

var socialDefaults = map[domain.SocialMode]float64{
	domain.SocialSolo:    0.75,
	domain.SocialCouple:  0.8,
	domain.SocialFamily:  0.75,
	domain.SocialFriends: 0.8,
}

// RankCandidates computes composite scores and returns the selection
// ranking: candidates ordered by descending final score with the
// embedding component as tie-break.
//
// The diversity penalty depends on what was already selected, so
// ranking proceeds greedily: pick the best remaining candidate, record
// its category, re-evaluate the rest.
func RankCandidates(req domain.PlanRequest, pois []*domain.POI) []CandidateScore {
	if len(pois) == 0 {
		return nil
	}

	profile := req.Intensity.Profile()
	bucket := bucketFor(req.StartTime)

	base := make([]CandidateScore, 0, len(pois))
	for _, p := range pois {
		dist := geo.Haversine(req.Start, p.Coord)

		emb := embeddingScore(req.QueryEmbedding, p.Embedding)
		ctxScore := contextualScore(p, bucket, req.Weather, req.Social, dist, profile.SearchRadiusKm)
		pop := popularityScore(p.Rating)

		base = append(base, CandidateScore{
			POI:                 p,
			EmbeddingComponent:  emb,
			ContextualComponent: ctxScore,
			PopularityComponent: pop,
			DistanceFromStartKm: dist,
		})
	}

	selected := make([]CandidateScore, 0, len(base))
	recent := make([]string, 0, 3) // categories of the last selections, newest last
	cursor := req.StartTime
	prev := req.Start

	for len(base) > 0 {
		bestIdx := -1
		var bestFinal, bestEmb float64

		for i := range base {
			c := &base[i]
			penalty := diversityPenalty(c.POI.Category, recent)
			baseScore := 0.4*c.EmbeddingComponent + 0.3*c.ContextualComponent + 0.15*c.PopularityComponent
			final := math.Max(0, baseScore-0.15*penalty)

			if bestIdx == -1 || final > bestFinal ||
				(final == bestFinal && c.EmbeddingComponent > bestEmb) {
				bestIdx = i
				bestFinal = final
				bestEmb = c.EmbeddingComponent
			}
		}

		pick := base[bestIdx]
		pick.DiversityPenalty = diversityPenalty(pick.POI.Category, recent)
		pick.FinalScore = bestFinal

		// Rough cursor advance for scoring-time arrival projection.
		travel := geo.WalkingMinutes(geo.Haversine(prev, pick.POI.Coord))
		cursor = cursor.Add(time.Duration(math.Round(travel)) * time.Minute)
		pick.ProjectedArrival = cursor
		cursor = cursor.Add(time.Duration(cappedVisitMinutes(pick.POI, profile)+profile.TransitionPadMinutes) * time.Minute)
		prev = pick.POI.Coord

		selected = append(selected, pick)
		base = append(base[:bestIdx], base[bestIdx+1:]...)

		recent = append(recent, pick.POI.Category)
		if len(recent) > 3 {
			recent = recent[1:]
		}
	}

	return selected
}

// diversityPenalty discourages monotone category runs: a repeat of the
// immediately preceding category costs 30, a repeat within the last
// three selections costs 15.
func diversityPenalty(category string, recent []string) float64 {
	if len(recent) == 0 {
		return 0
	}
	if recent[len(recent)-1] == category {
		return 30
	}
	for _, c := range recent {
		if c == category {
			return 15
		}
	}
	return 0
}

// embeddingScore maps cosine similarity into [0,100].
func embeddingScore(query, poi []float64) float64 {
	if len(query) == 0 || len(poi) == 0 || len(query) != len(poi) {
		return defaultEmbeddingScore
	}

	var dot, qNorm, pNorm float64
	for i := range query {
		dot += query[i] * poi[i]
		qNorm += query[i] * query[i]
		pNorm += poi[i] * poi[i]
	}
	if qNorm == 0 || pNorm == 0 {
		return defaultEmbeddingScore
	}

	sim := dot / (math.Sqrt(qNorm) * math.Sqrt(pNorm))
	return clamp(sim*100, 0, 100)
}

func contextualScore(p *domain.POI, bucket timeBucket, weather *domain.WeatherSnapshot, social domain.SocialMode, distKm, radiusKm float64) float64 {
	timeAlign := clamp(timePhaseAlignment(p.Category, bucket), 0, 1.1)
	weatherAlign := clamp(weatherAlignment(p.Category, weather), 0, 1.1)
	socialAlign := clamp(socialAlignment(p.Category, social), 0, 1.1)
	accessAlign := clamp(accessibilityAlignment(distKm, radiusKm), 0, 1.1)

	score := 100 * (0.40*timeAlign + 0.25*weatherAlign + 0.20*socialAlign + 0.15*accessAlign)
	return clamp(score, 0, 100)
}

func timePhaseAlignment(category string, bucket timeBucket) float64 {
	if v, ok := timePhaseTable[bucket][category]; ok {
		return v
	}
	return timePhaseDefault[bucket]
}

// weatherAlignment favors indoor categories during precipitation, fog
// or cold, and outdoor ones otherwise. Neutral 0.75 without data.
func weatherAlignment(category string, w *domain.WeatherSnapshot) float64 {
	if w == nil {
		return 0.75
	}

	hostile := w.Precipitation > 0 || w.TemperatureC < 5
	switch w.Condition {
	case "rain", "drizzle", "snow", "thunderstorm", "fog":
		hostile = true
	}

	_, indoor := indoorCategories[category]
	_, outdoor := outdoorCategories[category]

	if hostile {
		switch {
		case indoor:
			return 1.0
		case outdoor:
			return 0.35
		default:
			return 0.7
		}
	}
	switch {
	case outdoor:
		return 1.0
	case indoor:
		return 0.8
	default:
		return 0.85
	}
}

func socialAlignment(category string, social domain.SocialMode) float64 {
	if v, ok := socialTable[social][category]; ok {
		return v
	}
	if d, ok := socialDefaults[social]; ok {
		return d
	}
	return 0.75
}

// accessibilityAlignment decays in four bands relative to the intensity
// search radius.
func accessibilityAlignment(distKm, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return 0.4
	}
	switch ratio := distKm / radiusKm; {
	case ratio <= 0.35:
		return 1.0
	case ratio <= 0.65:
		return 0.85
	case ratio <= 0.90:
		return 0.7
	case ratio <= 1.15:
		return 0.55
	default:
		return 0.4
	}
}

func popularityScore(rating float64) float64 {
	if rating <= 0 {
		return 18
	}
	return rating / 5 * 30
}

// cappedVisitMinutes bounds a POI's suggested visit duration by the
// intensity profile. Unknown durations default to 30 minutes.
func cappedVisitMinutes(p *domain.POI, profile domain.IntensityProfile) int {
	visit := p.VisitMinutes
	if visit <= 0 {
		visit = 30
	}
	if visit > profile.MaxVisitMinutes {
		visit = profile.MaxVisitMinutes
	}
	return visit
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
