// Package spatial provides great-circle distance and an in-memory
// nearest-neighbor index over geographic points.
package spatial

import "math"

// earthRadiusKM is Earth's mean radius used by the haversine formula.
const earthRadiusKM = 6371.0

// DegreesPerKM is an approximate conversion factor for kilometers to degrees.
// At mid-latitudes, 1 degree is approximately 111 km. The index applies it
// uniformly regardless of latitude; at this system's latitude range the error
// is a documented accuracy limitation of the radius queries.
const DegreesPerKM = 1.0 / 111.0

// DistanceKM returns the great-circle distance in kilometers between two
// points given in decimal degrees, using the haversine formula. Symmetric,
// non-negative, and zero for coincident points.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKM * c
}

// KMToDegrees converts a kilometer radius to the degree-space radius used by
// index queries.
func KMToDegrees(km float64) float64 {
	return km * DegreesPerKM
}
