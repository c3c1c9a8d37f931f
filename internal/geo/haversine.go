package geo

import (
	"itinerary-route-service/internal/domain"
	"math"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in kilometers between
// two points.
func Haversine(a, b domain.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// WalkingMinutes estimates travel time on foot for a given distance,
// assuming an average urban walking speed.
func WalkingMinutes(distanceKm float64) float64 {
	const walkingSpeedKmh = 4.5
	return distanceKm / walkingSpeedKmh * 60
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
