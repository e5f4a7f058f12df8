package geo

import (
	"math"
)

// Coordinates is a (latitude, longitude) pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineKm calculates the great-circle distance between two points in kilometers.
func HaversineKm(a, b Coordinates) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// DistanceKm returns the great-circle distance rounded to 3 decimal places,
// the precision shown to order managers.
func DistanceKm(a, b Coordinates) float64 {
	return math.Round(HaversineKm(a, b)*1000) / 1000
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
