package dto

import "time"

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PlanRequest struct {
	// Exactly one of Start and Address must be set.
	Start   *Point `json:"start"`
	Address string `json:"address"`

	StartTime     *time.Time `json:"start_time"`
	BudgetMinutes int        `json:"budget_minutes"`
	Intensity     string     `json:"intensity"`
	Social        string     `json:"social"`

	// Interests is optional free-form text matched against POI
	// embeddings when an embedder is configured.
	Interests string `json:"interests"`

	Categories           []string `json:"categories"`
	BreakIntervalMinutes int      `json:"break_interval_minutes"`
}

type StopResponse struct {
	Order              int       `json:"order"`
	POIID              string    `json:"poi_id"`
	Name               string    `json:"name"`
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	Category           string    `json:"category"`
	ArriveAt           time.Time `json:"arrive_at"`
	LeaveAt            time.Time `json:"leave_at"`
	IsOpen             bool      `json:"is_open"`
	Hours              string    `json:"hours,omitempty"`
	Note               string    `json:"note,omitempty"`
	IsBreak            bool      `json:"is_break,omitempty"`
	DistanceFromPrevKm float64   `json:"distance_from_prev_km"`
}

type LegResponse struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Geometry        []Point `json:"geometry"`
}

type ExplanationResponse struct {
	Summary string   `json:"summary"`
	PerStop []string `json:"per_stop"`
	Notes   string   `json:"notes,omitempty"`
}

type ItineraryResponse struct {
	Stops           []StopResponse       `json:"stops"`
	Legs            []LegResponse        `json:"legs"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	TotalMinutes    int                  `json:"total_minutes"`
	Warnings        []string             `json:"warnings,omitempty"`
	Explanation     *ExplanationResponse `json:"explanation,omitempty"`
}
