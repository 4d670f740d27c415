package services

import (
	"math"

	"github.com/tidwall/geodesic"

	"github.com/vendee/vendee/internal/core/domain"
)

// Distance returns the geodesic distance between a and b on the WGS-84
// ellipsoid, in kilometres.
func Distance(a, b domain.Coordinate) float64 {
	var metres float64
	geodesic.WGS84.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &metres, nil, nil)
	return metres / 1000
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
