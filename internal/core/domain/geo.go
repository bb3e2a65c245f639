package domain

import (
	"fmt"
	"math"
)

const (
	GeoTypePoint = "Point"

	earthRadiusMeters = 6371008.8
)

// GeoPoint is a GeoJSON point as stored behind a 2dsphere index.
// Coordinates are ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a point from latitude/longitude and rejects anything
// that is not finite or falls outside the WGS84 ranges.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{Type: GeoTypePoint, Coordinates: []float64{lng, lat}}, nil
}

// ValidateCoordinates reports ErrInvalidLocation for non-finite or
// out-of-range coordinates.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("%w: coordinates must be finite", ErrInvalidLocation)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidLocation, lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidLocation, lng)
	}
	return nil
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Valid reports whether the point is well formed.
func (p GeoPoint) Valid() bool {
	return p.Type == GeoTypePoint && len(p.Coordinates) == 2 && ValidateCoordinates(p.Lat(), p.Lng()) == nil
}

// IsOrigin reports whether the point sits exactly on (0,0). Legacy records
// used the origin to mean "never set", so it is never a discoverable location.
func (p GeoPoint) IsOrigin() bool {
	return p.Lat() == 0 && p.Lng() == 0
}

// DistanceMeters returns the great-circle (haversine) distance to q.
func (p GeoPoint) DistanceMeters(q GeoPoint) float64 {
	lat1 := toRadians(p.Lat())
	lat2 := toRadians(q.Lat())
	dLat := lat2 - lat1
	dLng := toRadians(q.Lng() - p.Lng())

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Discoverable reports whether loc may appear in a proximity result.
func Discoverable(loc *GeoPoint) bool {
	return loc != nil && loc.Valid() && !loc.IsOrigin()
}
