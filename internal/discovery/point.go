package discovery

import (
	"fmt"

	"github.com/snufix/taskflow/internal/core/domain"
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// NewPoint validates lat/lng the same way the server does.
func NewPoint(lat, lng float64) (Point, error) {
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lng: lng}, nil
}

func (p Point) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

func pointFromGeo(g domain.GeoPoint) Point {
	return Point{Lat: g.Lat(), Lng: g.Lng()}
}
