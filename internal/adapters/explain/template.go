package explain

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"strings"
)

// TemplateExplainer builds itinerary narratives from fixed templates.
// It never fails, which makes it both the default explainer and the
// fallback for the remote one.
type TemplateExplainer struct{}

func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

var socialOpeners = map[domain.SocialMode]string{
	domain.SocialSolo:    "A route built for wandering at your own pace",
	domain.SocialCouple:  "A route for the two of you",
	domain.SocialFamily:  "A family-friendly route",
	domain.SocialFriends: "A route for the whole group",
}

func (t *TemplateExplainer) Explain(_ context.Context, stops []domain.PlannedStop, social domain.SocialMode) ports.Explanation {
	opener, ok := socialOpeners[social]
	if !ok {
		opener = "A walking route"
	}

	visits := 0
	for _, s := range stops {
		if !s.IsBreak {
			visits++
		}
	}

	perStop := make([]string, 0, len(stops))
	for _, s := range stops {
		perStop = append(perStop, stopLine(s))
	}

	ex := ports.Explanation{
		Summary: fmt.Sprintf("%s with %d stop(s).", opener, visits),
		PerStop: perStop,
	}
	if len(stops) == 0 {
		ex.Summary = "No stops fit the requested time window."
		return ex
	}

	first := stops[0]
	last := stops[len(stops)-1]
	ex.Notes = fmt.Sprintf("Starts at %s around %s and wraps up by %s.",
		first.Name, first.ArriveAt.Format("15:04"), last.LeaveAt.Format("15:04"))
	return ex
}

func stopLine(s domain.PlannedStop) string {
	var b strings.Builder
	if s.IsBreak {
		fmt.Fprintf(&b, "%d. %s - a short break", s.Order, s.Name)
	} else {
		fmt.Fprintf(&b, "%d. %s (%s)", s.Order, s.Name, s.Category)
	}
	fmt.Fprintf(&b, ", %s-%s", s.ArriveAt.Format("15:04"), s.LeaveAt.Format("15:04"))
	if s.AvailabilityNote != "" && !s.IsBreak {
		fmt.Fprintf(&b, " (%s)", s.AvailabilityNote)
	}
	return b.String()
}
