package domain

import "math"

// Earth radius in kilometers used for great-circle distance.
const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Haversine returns the great-circle distance between two points in kilometers.
//
// This is the numeric contract the route planner is built on: symmetric,
// zero for identical points, and it satisfies the triangle inequality.
func Haversine(p1, p2 Coordinates) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	deltaLat := toRadians(p2.Lat - p1.Lat)
	deltaLng := toRadians(p2.Lng - p1.Lng)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
