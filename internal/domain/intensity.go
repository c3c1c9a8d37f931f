package domain

import "fmt"

// Intensity is a coarse pacing profile controlling search radius, visit
// duration caps, transition padding, and break cadence.
type Intensity string

const (
	IntensityRelaxed Intensity = "relaxed"
	IntensityMedium  Intensity = "medium"
	IntensityIntense Intensity = "intense"
)

// Pacing parameters derived from an intensity level.
type IntensityProfile struct {
	SearchRadiusKm       float64
	MaxVisitMinutes      int
	TransitionPadMinutes int
	BreakIntervalMinutes int
}

var intensityProfiles = map[Intensity]IntensityProfile{
	IntensityRelaxed: {SearchRadiusKm: 1.5, MaxVisitMinutes: 50, TransitionPadMinutes: 10, BreakIntervalMinutes: 75},
	IntensityMedium:  {SearchRadiusKm: 2.5, MaxVisitMinutes: 40, TransitionPadMinutes: 7, BreakIntervalMinutes: 90},
	IntensityIntense: {SearchRadiusKm: 4.0, MaxVisitMinutes: 30, TransitionPadMinutes: 5, BreakIntervalMinutes: 120},
}

// ParseIntensity validates a request-supplied intensity value.
// An empty value defaults to medium.
func ParseIntensity(s string) (Intensity, error) {
	switch Intensity(s) {
	case "":
		return IntensityMedium, nil
	case IntensityRelaxed, IntensityMedium, IntensityIntense:
		return Intensity(s), nil
	}
	return "", fmt.Errorf("parse intensity: unknown level %q", s)
}

// Profile returns the pacing parameters for the intensity level.
// Unknown levels fall back to medium.
func (i Intensity) Profile() IntensityProfile {
	if p, ok := intensityProfiles[i]; ok {
		return p
	}
	return intensityProfiles[IntensityMedium]
}
