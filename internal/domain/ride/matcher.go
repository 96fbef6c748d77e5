package ride

import (
	"math"

	"github.com/Kilat-Pet-Delivery/service-dispatch/internal/domain/geo"
)

// FindNearest returns the available driver closest to origin by Euclidean
// distance, along with that distance. Ties keep the earliest driver in the
// slice. It returns false when no driver is available.
func FindNearest(origin geo.Point, drivers []*Driver) (*Driver, float64, bool) {
	var nearest *Driver
	minDistance := math.Inf(1)

	for _, d := range drivers {
		if d == nil || !d.IsAvailable() {
			continue
		}
		distance := geo.Euclidean(origin, d.Location())
		if distance < minDistance {
			minDistance = distance
			nearest = d
		}
	}

	if nearest == nil {
		return nil, 0, false
	}
	return nearest, minDistance, true
}
