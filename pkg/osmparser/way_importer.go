package osmparser

import (
	"log/slog"

	"github.com/paulmach/osm"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
)

// WayImporter . adds already decoded OSM ways to a graph, one edge per consecutive node pair.
// graph node ids are handed out in the order OSM nodes are first seen.
type WayImporter struct {
	g         *graph.BaseGraph
	enc       TagEncoders
	nodeIDMap map[osm.NodeID]int32
	logger    *slog.Logger

	ways        int
	skippedWays int
}

func NewWayImporter(g *graph.BaseGraph, enc TagEncoders, logger *slog.Logger) *WayImporter {
	return &WayImporter{
		g:         g,
		enc:       enc,
		nodeIDMap: make(map[osm.NodeID]int32),
		logger:    logging.OrDefault(logger),
	}
}

// NodeID. graph node of an OSM node, if it was imported.
func (wi *WayImporter) NodeID(id osm.NodeID) (int32, bool) {
	n, ok := wi.nodeIDMap[id]
	return n, ok
}

func (wi *WayImporter) node(id osm.NodeID, coord geo.Coordinate) (int32, error) {
	if n, ok := wi.nodeIDMap[id]; ok {
		return n, nil
	}
	n := int32(len(wi.nodeIDMap))
	if err := wi.g.NodeAccess().SetNode(n, coord.Lat, coord.Lon); err != nil {
		return -1, err
	}
	wi.nodeIDMap[id] = n
	return n, nil
}

// AddWay. import way with node coordinates taken from coords. ways that are not roads are skipped (0, nil).
// returns the number of edges created.
func (wi *WayImporter) AddWay(way *osm.Way, coords map[osm.NodeID]geo.Coordinate) (int, error) {
	if !AcceptWay(way) || len(way.Nodes) < 2 {
		wi.skippedWays++
		return 0, nil
	}
	attrs, err := ParseWayTags(way.Tags)
	if err != nil {
		wi.logger.Warn("bad way tags, using defaults", "way", way.ID, "error", err)
	}

	// every coordinate is resolved before the first edge, a rejected way leaves the graph untouched
	ids := make([]osm.NodeID, 0, len(way.Nodes))
	points := make([]geo.Coordinate, 0, len(way.Nodes))
	for _, wn := range way.Nodes {
		coord, ok := coords[wn.ID]
		if !ok {
			return 0, errs.NewErrorf(errs.ErrInvalidArgument, "way %d: node %d has no coordinates", way.ID, wn.ID)
		}
		if len(ids) > 0 && ids[len(ids)-1] == wn.ID {
			continue
		}
		ids = append(ids, wn.ID)
		points = append(points, coord)
	}

	edges := 0
	for i := 1; i < len(ids); i++ {
		a, err := wi.node(ids[i-1], points[i-1])
		if err != nil {
			return edges, err
		}
		b, err := wi.node(ids[i], points[i])
		if err != nil {
			return edges, err
		}

		prev, cur := points[i-1], points[i]
		dist := geo.CalculateHaversineDistance(prev.Lat, prev.Lon, cur.Lat, cur.Lon) * 1000
		state, err := wi.g.Edge(a, b, dist)
		if err != nil {
			return edges, err
		}
		if err := attrs.Apply(state, wi.enc); err != nil {
			return edges, err
		}
		edges++
	}
	wi.ways++
	return edges, nil
}

// ImportWays. AddWay for every way, coordinates from nodes.
func (wi *WayImporter) ImportWays(ways osm.Ways, nodes osm.Nodes) error {
	coords := make(map[osm.NodeID]geo.Coordinate, len(nodes))
	for _, n := range nodes {
		coords[n.ID] = geo.NewCoordinate(n.Lat, n.Lon)
	}
	edges := 0
	for _, way := range ways {
		n, err := wi.AddWay(way, coords)
		if err != nil {
			return err
		}
		edges += n
	}
	wi.logger.Info("imported ways",
		"ways", wi.ways,
		"skipped", wi.skippedWays,
		"edges", edges,
		"nodes", len(wi.nodeIDMap))
	return nil
}
