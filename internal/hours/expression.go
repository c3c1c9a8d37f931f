// Package hours parses weekly opening-hours expressions and evaluates
// whether a POI is open at a given instant.
package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidExpression marks malformed opening-hours text. Callers fall
// back to category defaults instead of failing the request.
var ErrInvalidExpression = errors.New("invalid opening-hours expression")

// A single weekly opening window. Minutes are counted from midnight.
// A window whose close time is not after its open time wraps past
// midnight into the following day.
type Window struct {
	Days          [7]bool // indexed by time.Weekday (Sunday == 0)
	StartMinutes  int
	EndMinutes    int
	WrapsMidnight bool
}

// AppliesOn reports whether the window opens on the given weekday.
func (w Window) AppliesOn(d time.Weekday) bool { return w.Days[d] }

var dayAbbrev = map[string]time.Weekday{
	"mo": time.Monday,
	"tu": time.Tuesday,
	"we": time.Wednesday,
	"th": time.Thursday,
	"fr": time.Friday,
	"sa": time.Saturday,
	"su": time.Sunday,
}

// ParseExpression parses a weekly expression such as
// "Mo-Fr 10:00-18:00; Sa-Su 11:00-16:00" or "Daily 09:00-21:00".
// Each semicolon-separated rule pairs a day specifier with one or more
// comma-separated HH:MM-HH:MM ranges.
func ParseExpression(expr string) ([]Window, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}

	var windows []Window
	for _, rule := range strings.Split(expr, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}

		fields := strings.Fields(rule)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: rule %q needs days and times", ErrInvalidExpression, rule)
		}

		days, err := parseDaySpec(fields[0])
		if err != nil {
			return nil, err
		}

		// Time ranges may contain spaces after commas; rejoin the tail.
		for _, rng := range strings.Split(strings.Join(fields[1:], ""), ",") {
			w, err := parseTimeRange(rng)
			if err != nil {
				return nil, err
			}
			w.Days = days
			windows = append(windows, w)
		}
	}

	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no rules in %q", ErrInvalidExpression, expr)
	}
	return windows, nil
}

func parseDaySpec(spec string) ([7]bool, error) {
	var days [7]bool

	switch strings.ToLower(spec) {
	case "daily", "everyday":
		for i := range days {
			days[i] = true
		}
		return days, nil
	}

	for _, atom := range strings.Split(spec, ",") {
		atom = strings.ToLower(strings.TrimSpace(atom))
		if atom == "" {
			continue
		}

		if from, to, ok := strings.Cut(atom, "-"); ok {
			start, okFrom := dayAbbrev[from]
			end, okTo := dayAbbrev[to]
			if !okFrom || !okTo {
				return days, fmt.Errorf("%w: unknown day range %q", ErrInvalidExpression, atom)
			}
			// Ranges may wrap the week boundary (e.g. Sa-Mo).
			for d := start; ; d = (d + 1) % 7 {
				days[d] = true
				if d == end {
					break
				}
			}
			continue
		}

		d, ok := dayAbbrev[atom]
		if !ok {
			return days, fmt.Errorf("%w: unknown day %q", ErrInvalidExpression, atom)
		}
		days[d] = true
	}

	return days, nil
}

func parseTimeRange(rng string) (Window, error) {
	opens, closes, ok := strings.Cut(strings.TrimSpace(rng), "-")
	if !ok {
		return Window{}, fmt.Errorf("%w: time range %q must be HH:MM-HH:MM", ErrInvalidExpression, rng)
	}

	startMin, err := parseClock(opens)
	if err != nil {
		return Window{}, err
	}
	endMin, err := parseClock(closes)
	if err != nil {
		return Window{}, err
	}

	return Window{
		StartMinutes:  startMin,
		EndMinutes:    endMin,
		WrapsMidnight: endMin <= startMin,
	}, nil
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidExpression, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
