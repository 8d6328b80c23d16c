package index

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
)

var ErrEmptyIndex = errors.New("location index has no nodes")

const (
	minChildren = 25
	maxChildren = 50
	// candidates. neighbours taken from the tree (planar lat/lon order) before ranking them by great circle distance.
	candidates = 8
	pointTol   = 1e-9

	metersPerDegree = 111_195.0
)

type nodeLeaf struct {
	node  int32
	coord geo.Coordinate
	rect  rtreego.Rect
}

func (l *nodeLeaf) Bounds() rtreego.Rect {
	return l.rect
}

// LocationIndex . R-tree over the node coordinates of a graph. nodes without coordinates are not indexed.
// read only after construction and safe for concurrent lookups.
type LocationIndex struct {
	tree *rtreego.Rtree
	size int
}

func NewLocationIndex(g *graph.BaseGraph) (*LocationIndex, error) {
	if g.IsClosed() {
		return nil, errs.WrapErrorf(graph.ErrGraphClosed, errs.ErrIllegalState, "build location index")
	}
	na := g.NodeAccess()
	leaves := make([]rtreego.Spatial, 0, g.Nodes())
	for n := int32(0); n < g.Nodes(); n++ {
		coord := na.Coordinate(n)
		if !coord.IsValid() {
			continue
		}
		leaves = append(leaves, &nodeLeaf{
			node:  n,
			coord: coord,
			rect:  rtreego.Point{coord.Lat, coord.Lon}.ToRect(pointTol),
		})
	}
	return &LocationIndex{
		tree: rtreego.NewTree(2, minChildren, maxChildren, leaves...),
		size: len(leaves),
	}, nil
}

func (li *LocationIndex) Size() int {
	return li.size
}

// FindClosest. node nearest to (lat, lon) and its distance in meters.
func (li *LocationIndex) FindClosest(lat, lon float64) (int32, float64, error) {
	if li.size == 0 {
		return -1, 0, errs.WrapErrorf(ErrEmptyIndex, errs.ErrIllegalState, "find closest to %v,%v", lat, lon)
	}
	if !geo.NewCoordinate(lat, lon).IsValid() {
		return -1, 0, errs.NewErrorf(errs.ErrInvalidArgument, "invalid query point %v,%v", lat, lon)
	}

	best, bestDist := int32(-1), math.Inf(1)
	for _, s := range li.tree.NearestNeighbors(candidates, rtreego.Point{lat, lon}) {
		leaf, ok := s.(*nodeLeaf)
		if !ok {
			continue
		}
		d := geo.DistanceMeters(lat, lon, leaf.coord.Lat, leaf.coord.Lon)
		if d < bestDist || (d == bestDist && leaf.node < best) {
			best, bestDist = leaf.node, d
		}
	}
	return best, bestDist, nil
}

// FindWithin. nodes within radiusMeters of (lat, lon), closest first.
func (li *LocationIndex) FindWithin(lat, lon, radiusMeters float64) ([]int32, error) {
	if radiusMeters < 0 {
		return nil, errs.NewErrorf(errs.ErrInvalidArgument, "negative radius %v", radiusMeters)
	}
	if li.size == 0 {
		return nil, nil
	}

	// bounding box in degrees, longitudes shrink with latitude
	dLat := radiusMeters / metersPerDegree
	dLon := dLat / math.Max(math.Cos(lat*math.Pi/180), 1e-6)
	bound, err := rtreego.NewRectFromPoints(
		rtreego.Point{lat - dLat, lon - dLon},
		rtreego.Point{lat + dLat + pointTol, lon + dLon + pointTol},
	)
	if err != nil {
		return nil, errs.WrapErrorf(err, errs.ErrInvalidArgument, "search box around %v,%v", lat, lon)
	}

	type hit struct {
		node int32
		dist float64
	}
	hits := make([]hit, 0)
	for _, s := range li.tree.SearchIntersect(bound) {
		leaf := s.(*nodeLeaf)
		d := geo.DistanceMeters(lat, lon, leaf.coord.Lat, leaf.coord.Lon)
		if d <= radiusMeters {
			hits = append(hits, hit{leaf.node, d})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.node, b.node)
	})

	nodes := make([]int32, len(hits))
	for i, h := range hits {
		nodes[i] = h.node
	}
	return nodes, nil
}
