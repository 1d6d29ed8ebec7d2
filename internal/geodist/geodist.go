// Package geodist computes distances between points on the Earth's surface.
package geodist

import (
	"math"

	"github.com/tidwall/geodesic"
)

// MetersPerMile is the international mile.
const MetersPerMile = 1609.344

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within the latitude and longitude ranges.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lon >= -180 && p.Lon <= 180
}

// Miles returns the geodesic distance between a and b in miles.
func Miles(a, b Point) float64 {
	return Meters(a, b) / MetersPerMile
}

// Meters returns the geodesic distance between a and b in meters on the WGS-84
// ellipsoid. Karney's solution converges for every pair, antipodal included.
func Meters(a, b Point) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &s12, nil, nil)
	return s12
}
