package hours

import (
	"fmt"
	"itinerary-route-service/internal/domain"
	"log"
	"sort"
	"strings"
	"time"
)

// Status describes a POI's availability at a specific instant.
type Status struct {
	// IsOpen is true when the POI is open now, or opens within the
	// resolver's wait allowance (WaitMinutes > 0 in that case).
	IsOpen       bool
	WaitMinutes  int
	ClosedAllDay bool

	// ClosesAt is the end of the active window; zero when closed.
	ClosesAt time.Time

	// Label is a human-readable rendering of today's windows.
	Label string
}

// Typical opening hours per category, used when a POI carries no
// schedule of its own.
var categoryDefaults = map[string][2]string{
	"museum":     {"10:00", "18:00"},
	"gallery":    {"11:00", "19:00"},
	"cafe":       {"08:00", "22:00"},
	"restaurant": {"11:00", "23:00"},
	"bar":        {"17:00", "02:00"},
	"park":       {"06:00", "23:00"},
	"church":     {"08:00", "19:00"},
	"market":     {"09:00", "17:00"},
	"theatre":    {"12:00", "22:00"},
}

// Categories treated as always open when nothing else is known.
var alwaysOpenCategories = map[string]struct{}{
	"monument":  {},
	"viewpoint": {},
	"square":    {},
	"street":    {},
}

const (
	defaultOpen  = "09:00"
	defaultClose = "20:00"
)

// Resolver evaluates POI schedules against an instant in time.
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	// MaxWaitMinutes bounds how far ahead of opening an arrival still
	// counts as "open with a wait".
	MaxWaitMinutes int
}

func NewResolver() *Resolver {
	return &Resolver{MaxWaitMinutes: 45}
}

// Resolve determines availability of the POI at the given instant.
// Schedule sources are tried in order: weekly expression, explicit
// open/close fields, category defaults, generic default window.
// A malformed expression is logged as a data-quality issue and never
// fails the request.
func (r *Resolver) Resolve(p *domain.POI, at time.Time) Status {
	windows := r.windowsFor(p)
	return r.evaluate(windows, at)
}

func (r *Resolver) windowsFor(p *domain.POI) []Window {
	if strings.TrimSpace(p.HoursExpr) != "" {
		windows, err := ParseExpression(p.HoursExpr)
		if err == nil {
			return windows
		}
		log.Printf("hours: poi_id=%s bad expression %q: %v (using fallback)", p.ID, p.HoursExpr, err)
	}

	opens, closes := p.OpensAt, p.ClosesAt
	if opens == "" || closes == "" {
		if _, ok := alwaysOpenCategories[p.Category]; ok {
			opens, closes = "00:00", "23:59"
		} else if d, ok := categoryDefaults[p.Category]; ok {
			opens, closes = d[0], d[1]
		} else {
			opens, closes = defaultOpen, defaultClose
		}
	}

	w, err := parseTimeRange(opens + "-" + closes)
	if err != nil {
		log.Printf("hours: poi_id=%s bad open/close %q-%q: %v (using default window)", p.ID, opens, closes, err)
		w, _ = parseTimeRange(defaultOpen + "-" + defaultClose)
	}
	for i := range w.Days {
		w.Days[i] = true
	}
	return []Window{w}
}

func (r *Resolver) evaluate(windows []Window, at time.Time) Status {
	nowMin := at.Hour()*60 + at.Minute()
	today := at.Weekday()
	yesterday := (today + 6) % 7
	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	label := dayLabel(windows, today)

	// A window that wrapped past midnight yesterday may still be active.
	for _, w := range windows {
		if w.WrapsMidnight && w.AppliesOn(yesterday) && nowMin < w.EndMinutes {
			return Status{
				IsOpen:   true,
				ClosesAt: midnight.Add(time.Duration(w.EndMinutes) * time.Minute),
				Label:    label,
			}
		}
	}

	nextOpen := -1
	applicable := false
	for _, w := range windows {
		if !w.AppliesOn(today) {
			continue
		}
		applicable = true

		end := w.EndMinutes
		if w.WrapsMidnight {
			end = 24 * 60 // open through midnight; closing resolves tomorrow
		}

		if nowMin >= w.StartMinutes && nowMin < end {
			closesAt := midnight.Add(time.Duration(w.EndMinutes) * time.Minute)
			if w.WrapsMidnight {
				closesAt = closesAt.Add(24 * time.Hour)
			}
			return Status{IsOpen: true, ClosesAt: closesAt, Label: label}
		}

		if nowMin < w.StartMinutes && (nextOpen == -1 || w.StartMinutes < nextOpen) {
			nextOpen = w.StartMinutes
		}
	}

	if nextOpen >= 0 {
		wait := nextOpen - nowMin
		if wait <= r.MaxWaitMinutes {
			// Caller may choose to wait out the gap.
			closesAt := closingAfter(windows, today, nextOpen, midnight)
			return Status{IsOpen: true, WaitMinutes: wait, ClosesAt: closesAt, Label: label}
		}
		return Status{IsOpen: false, WaitMinutes: wait, Label: label}
	}

	return Status{IsOpen: false, ClosedAllDay: !applicable, Label: label}
}

// closingAfter finds the close instant of the window opening at
// startMin on the given day.
func closingAfter(windows []Window, day time.Weekday, startMin int, midnight time.Time) time.Time {
	for _, w := range windows {
		if !w.AppliesOn(day) || w.StartMinutes != startMin {
			continue
		}
		closesAt := midnight.Add(time.Duration(w.EndMinutes) * time.Minute)
		if w.WrapsMidnight {
			closesAt = closesAt.Add(24 * time.Hour)
		}
		return closesAt
	}
	return time.Time{}
}

// dayLabel renders the windows applying on the given weekday, e.g.
// "10:00-18:00" or "10:00-14:00, 15:00-19:00".
func dayLabel(windows []Window, day time.Weekday) string {
	type span struct{ start, end int }
	var spans []span
	for _, w := range windows {
		if w.AppliesOn(day) {
			spans = append(spans, span{w.StartMinutes, w.EndMinutes})
		}
	}
	if len(spans) == 0 {
		return "closed today"
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, fmt.Sprintf("%s-%s", formatClock(s.start), formatClock(s.end)))
	}
	return strings.Join(parts, ", ")
}
