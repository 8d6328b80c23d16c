package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64
	Lon float64
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// IsValid. lat in [-90,90] and lon in [-180,180], bounds inclusive.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) toPoint() s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// EncodePolyline. google encoded polyline (precision 5) of coords.
func EncodePolyline(coords []Coordinate) string {
	pts := make([][]float64, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(pts))
}

func DecodePolyline(s string) ([]Coordinate, error) {
	pts, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, Coordinate{Lat: p[0], Lon: p[1]})
	}
	return coords, nil
}
