package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Decorative narrative attached to a finished itinerary.
type Explanation struct {
	Summary  string   `json:"summary"`
	PerStop  []string `json:"per_stop"`
	Notes    string   `json:"notes"`
	Degraded bool     `json:"-"` // true when built from the template fallback
}

// Contract for generating itinerary explanations. Implementations must
// always succeed; remote failures degrade to templated text.
type Explainer interface {
	Explain(ctx context.Context, stops []domain.PlannedStop, social domain.SocialMode) Explanation
}
