package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// CalculateHaversineDistance. great circle distance in km.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// DistanceMeters. great circle distance in meters, computed on the s2 sphere.
func DistanceMeters(latOne, lonOne, latTwo, lonTwo float64) float64 {
	angle := s2.LatLngFromDegrees(latOne, lonOne).Distance(s2.LatLngFromDegrees(latTwo, lonTwo))
	return angle.Radians() * earthRadiusM
}

// PointLinePerpendicularDistance. distance in meters from p to the segment (a,b).
func PointLinePerpendicularDistance(a, b, p Coordinate) float64 {
	angle := s2.DistanceFromSegment(p.toPoint(), a.toPoint(), b.toPoint())
	return angle.Radians() * earthRadiusM
}

// Midpoint. point halfway along the great circle between a and b.
func Midpoint(a, b Coordinate) Coordinate {
	pa, pb := a.toPoint(), b.toPoint()
	mid := s2.Interpolate(0.5, pa, pb)
	ll := s2.LatLngFromPoint(mid)
	return Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}
