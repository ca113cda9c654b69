// Package geo holds coordinate types and great-circle distance math.
package geo

import (
	"fmt"
	"math"
)

// EarthCircumferenceKm is the sentinel distance assigned to rows excluded
// from a proximity ranking. No real great-circle distance reaches it.
const EarthCircumferenceKm = 40_075.0

// Unit conversion factors for DistanceKm: arc minutes to statute miles to km.
const (
	nauticalMilesPerDegree  = 60
	statuteMilesPerNautical = 1.1515
	kmPerStatuteMile        = 1.609344
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewPoint validates and creates a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("coordinates (%v, %v) out of range", lat, lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// IsValid reports whether the point is finite and inside WGS84 bounds.
func (p Point) IsValid() bool {
	return ValidateCoordinates(p.Lat, p.Lon)
}

// DistanceTo returns the great-circle distance to other in kilometers.
func (p Point) DistanceTo(other Point) float64 {
	return DistanceKm(p.Lat, p.Lon, other.Lat, other.Lon)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// DistanceKm returns the great-circle distance in kilometers between two
// points given in degrees, using the spherical law of cosines.
// NaN inputs propagate to a NaN result.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	radLat1 := toRadians(lat1)
	radLat2 := toRadians(lat2)
	radTheta := toRadians(lon1 - lon2)

	cosArg := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)

	// Rounding can push the argument just outside [-1, 1] for (near) identical
	// or antipodal points, where acos is undefined.
	cosArg = clamp(cosArg, -1, 1)

	deg := math.Acos(cosArg) * 180 / math.Pi
	return deg * nauticalMilesPerDegree * statuteMilesPerNautical * kmPerStatuteMile
}

// ValidateCoordinates checks that both values are finite, latitude is in
// [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// clamp keeps NaN as NaN.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
