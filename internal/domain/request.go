package domain

import "time"

// SocialMode describes who the itinerary is for; it biases category
// preferences during scoring.
type SocialMode string

const (
	SocialSolo    SocialMode = "solo"
	SocialCouple  SocialMode = "couple"
	SocialFamily  SocialMode = "family"
	SocialFriends SocialMode = "friends"
)

// Point-in-time weather used only as a scoring input.
type WeatherSnapshot struct {
	Condition     string // e.g. "clear", "rain", "snow", "fog"
	TemperatureC  float64
	Precipitation float64 // mm in the current hour
}

// PlanRequest is the resolved, validated input to the planning pipeline.
// Geocoding of a free-form address happens before this struct is built;
// the pipeline itself only ever sees coordinates.
type PlanRequest struct {
	Start         Coordinates
	StartTime     time.Time
	BudgetMinutes int
	Intensity     Intensity
	Social        SocialMode

	// Weather is optional; nil means neutral alignment during scoring.
	Weather *WeatherSnapshot

	// QueryEmbedding is the embedded interest text, if any. Empty means
	// the embedding component falls back to its default.
	QueryEmbedding []float64

	// Categories restricts the catalog query when non-empty.
	Categories []string

	// BreakIntervalMinutes overrides the intensity-recommended break
	// cadence when larger; values below the floor are ignored.
	BreakIntervalMinutes int
}
