package routingalgorithm

import (
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
)

// WeightApproximator . lower bound of the remaining weight from a node to the target.
// must never overestimate, otherwise A* loses optimality.
type WeightApproximator interface {
	SetTo(to int32)
	Approximate(node int32) float64
}

// BeelineApproximator . great circle distance to the target times the weighting's minimum weight per meter.
// a path through a node without coordinates can be shorter than the beeline, so the
// approximation is zero for every node while the graph has such nodes.
type BeelineApproximator struct {
	na                   *graph.NodeAccess
	minWeightPerDistance float64
	to                   geo.Coordinate
	disabled             bool
}

func NewBeelineApproximator(na *graph.NodeAccess, minWeightPerDistance float64) *BeelineApproximator {
	return &BeelineApproximator{na: na, minWeightPerDistance: minWeightPerDistance}
}

func (b *BeelineApproximator) SetTo(to int32) {
	b.to = b.na.Coordinate(to)
	b.disabled = b.na.NodesWithoutCoordinates() > 0
}

func (b *BeelineApproximator) Approximate(node int32) float64 {
	if b.disabled {
		return 0
	}
	c := b.na.Coordinate(node)
	dist := geo.DistanceMeters(c.Lat, c.Lon, b.to.Lat, b.to.Lon)
	if math.IsNaN(dist) {
		// nodes without coordinates
		return 0
	}
	return dist * b.minWeightPerDistance
}

// ZeroApproximator . turns A* into plain Dijkstra.
type ZeroApproximator struct{}

func (ZeroApproximator) SetTo(int32) {}

func (ZeroApproximator) Approximate(int32) float64 {
	return 0
}
