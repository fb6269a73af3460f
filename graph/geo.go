package graph

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// metersPerDegLat is the approximate length of one degree of latitude.
const metersPerDegLat = 111_000.0

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// metersPerDegLon returns the local length of one degree of longitude at
// the given reference latitude.
func metersPerDegLon(refLat float64) float64 {
	c := math.Cos(refLat * math.Pi / 180)
	if math.Abs(c) < 1e-6 {
		c = 1e-6
	}
	return metersPerDegLat * c
}

func midpoint(a, b orb.Point) orb.Point {
	return orb.Point{0.5 * (a[0] + b[0]), 0.5 * (a[1] + b[1])}
}
