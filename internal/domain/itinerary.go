package domain

import "time"

// Travel segment between two consecutive stops.
type Leg struct {
	DistanceKm      float64
	DurationMinutes float64
	// Geometry is an ordered polyline; at minimum the two endpoints.
	Geometry []Coordinates
}

// Represents a single timed stop in a planned itinerary.
// Invariants: LeaveAt >= ArriveAt, and ArriveAt of stop i is never
// before LeaveAt of stop i-1.
type PlannedStop struct {
	Order              int // 1-based, contiguous
	POIID              string
	Name               string
	Coord              Coordinates
	ArriveAt           time.Time
	LeaveAt            time.Time
	IsOpen             bool
	HoursLabel         string
	AvailabilityNote   string
	IsBreak            bool
	Category           string
	DistanceFromPrevKm float64
}

// The planned itinerary for a single request.
// An Itinerary is the output of the planning pipeline and describes the
// ordered timed stops along with aggregate distance and duration metrics.
// It is immutable planning data and contains no side effects.
type Itinerary struct {
	Stops           []PlannedStop
	Legs            []Leg // len(Legs) == len(Stops)-1
	TotalDistanceKm float64
	TotalMinutes    int // last LeaveAt minus the request start, whole minutes
	Warnings        []string
}
