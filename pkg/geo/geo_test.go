package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	// one thousandth of a degree of longitude on the equator
	d := DistanceMeters(0, 0, 0, 0.001)
	assert.InDelta(t, 111.19, d, 0.1)

	km := CalculateHaversineDistance(0, 0, 0, 0.001)
	assert.InDelta(t, d/1000, km, 1e-6)

	assert.InDelta(t, 0, DistanceMeters(47.58677, -122.18003, 47.58677, -122.18003), 1e-9)
}

func TestIsValid(t *testing.T) {
	assert.True(t, NewCoordinate(90, 180).IsValid())
	assert.True(t, NewCoordinate(-90, -180).IsValid())
	assert.False(t, NewCoordinate(90.0001, 0).IsValid())
	assert.False(t, NewCoordinate(0, -180.5).IsValid())
	assert.False(t, NewCoordinate(math.NaN(), 0).IsValid())
}

func TestMidpoint(t *testing.T) {
	m := Midpoint(NewCoordinate(0, 0), NewCoordinate(0, 0.002))
	assert.InDelta(t, 0, m.Lat, 1e-9)
	assert.InDelta(t, 0.001, m.Lon, 1e-9)
}

func TestDouglasPeucker(t *testing.T) {
	lineCoords := []Coordinate{
		{-7.565837, 110.831586},
		{-7.566063, 110.832379},
		{-7.566406, 110.833232},
	}

	simplified := RamerDouglasPeucker(lineCoords, 7.0)
	assert.Len(t, simplified, 2)

	// a sharp corner survives
	corner := []Coordinate{{0, 0}, {0.01, 0}, {0.01, 0.01}}
	assert.Len(t, RamerDouglasPeucker(corner, 7.0), 3)
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}}
	s := EncodePolyline(coords)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", s)

	decoded, err := DecodePolyline(s)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range coords {
		assert.InDelta(t, coords[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, coords[i].Lon, decoded[i].Lon, 1e-5)
	}
}
