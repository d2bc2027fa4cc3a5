// Package geo provides great-circle distance computation for geofence checks.
package geo

import "math"

// earthRadiusMeters is the mean spherical radius of the Earth.
const earthRadiusMeters = 6371000.0

// Distance returns the haversine distance in meters between two points given
// in decimal degrees. Pure function; callers must pre-validate numeric-ness,
// NaN input yields NaN output. Symmetric, and 0 for coincident points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
