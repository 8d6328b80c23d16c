package graph

import (
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/geo"
)

// NodeAccess . coordinates of the graph's nodes.
type NodeAccess struct {
	g *BaseGraph
}

// SetNode. set (or overwrite) the coordinates of node id, growing the node range if needed.
func (na *NodeAccess) SetNode(id int32, lat, lon float64) error {
	return na.setNode(id, lat, lon, math.NaN())
}

// SetNode3D. like SetNode with elevation. the elevation is dropped for 2D graphs.
func (na *NodeAccess) SetNode3D(id int32, lat, lon, ele float64) error {
	return na.setNode(id, lat, lon, ele)
}

func (na *NodeAccess) setNode(id int32, lat, lon, ele float64) error {
	g := na.g
	if err := g.checkUsable("set node"); err != nil {
		return err
	}
	if id < 0 {
		return errs.NewErrorf(errs.ErrOutOfRange, "negative node id %d", id)
	}
	if err := g.ensureNode(id); err != nil {
		return err
	}
	p := g.nodePointer(id)
	had := na.hasCoordinates(p)
	g.nodes.SetDouble(p+N_LAT, lat)
	g.nodes.SetDouble(p+N_LON, lon)
	if g.withElevation {
		g.nodes.SetDouble(p+N_ELE, ele)
	}
	switch has := na.hasCoordinates(p); {
	case had && !has:
		g.missingCoords++
	case !had && has:
		g.missingCoords--
	}
	return nil
}

func (na *NodeAccess) hasCoordinates(p int64) bool {
	return !math.IsNaN(na.g.nodes.GetDouble(p+N_LAT)) && !math.IsNaN(na.g.nodes.GetDouble(p+N_LON))
}

// NodesWithoutCoordinates. number of allocated nodes whose latitude or longitude is NaN.
func (na *NodeAccess) NodesWithoutCoordinates() int32 {
	return na.g.missingCoords
}

// GetCoordinate. coordinate of node id. ids outside [0, Nodes()) are out-of-range, a closed graph is illegal-state.
func (na *NodeAccess) GetCoordinate(id int32) (geo.Coordinate, error) {
	if err := na.g.checkNode(id); err != nil {
		return geo.Coordinate{}, err
	}
	p := na.g.nodePointer(id)
	return geo.NewCoordinate(na.g.nodes.GetDouble(p+N_LAT), na.g.nodes.GetDouble(p+N_LON)), nil
}

// mustNode. pointer of node id, panics with the GetCoordinate error for unknown ids.
func (na *NodeAccess) mustNode(id int32) int64 {
	if err := na.g.checkNode(id); err != nil {
		panic(err)
	}
	return na.g.nodePointer(id)
}

func (na *NodeAccess) Lat(id int32) float64 {
	return na.g.nodes.GetDouble(na.mustNode(id) + N_LAT)
}

func (na *NodeAccess) Lon(id int32) float64 {
	return na.g.nodes.GetDouble(na.mustNode(id) + N_LON)
}

// Ele. elevation in meters, NaN for 2D graphs or when never set.
func (na *NodeAccess) Ele(id int32) float64 {
	p := na.mustNode(id)
	if !na.g.withElevation {
		return math.NaN()
	}
	return na.g.nodes.GetDouble(p + N_ELE)
}

// Coordinate. like GetCoordinate for ids known to be valid.
func (na *NodeAccess) Coordinate(id int32) geo.Coordinate {
	c, err := na.GetCoordinate(id)
	if err != nil {
		panic(err)
	}
	return c
}

func (na *NodeAccess) Is3D() bool {
	return na.g.withElevation
}
