package cache

import (
	"fmt"
	"itinerary-route-service/internal/domain"
)

// pointKey renders coordinates as a stable cache key. Five decimal
// places (~1m) keep keys identical across float round-trips.
func pointKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}
