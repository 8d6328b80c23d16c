package routingalgorithm

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

// Path . result of a search. edge keys are in travel order, each key oriented in the direction of travel.
type Path struct {
	g *graph.BaseGraph

	from     int32
	end      int32
	edgeKeys []int32

	distance float64 // meter
	weight   float64
	time     int64 // millisecond
	found    bool
}

func notFoundPath(g *graph.BaseGraph, from, to int32) *Path {
	return &Path{
		g:        g,
		from:     from,
		end:      to,
		edgeKeys: []int32{},
		weight:   math.Inf(1),
	}
}

// newFoundPath. aggregates are summed over the edges with w, always in forward direction of each key.
func newFoundPath(g *graph.BaseGraph, w weighting.Weighting, from int32, edgeKeys []int32) (*Path, error) {
	p := &Path{
		g:        g,
		from:     from,
		end:      from,
		edgeKeys: edgeKeys,
		found:    true,
	}
	for _, key := range edgeKeys {
		state, err := g.EdgeIteratorStateForKey(key)
		if err != nil {
			return nil, err
		}
		p.distance += state.Distance()
		p.weight += w.CalcEdgeWeight(state, false)
		p.time += w.CalcEdgeMillis(state, false)
		p.end = state.AdjNode()
	}
	return p, nil
}

func (p *Path) IsFound() bool {
	return p.found
}

func (p *Path) EdgeKeys() []int32 {
	return p.edgeKeys
}

func (p *Path) EdgeCount() int {
	return len(p.edgeKeys)
}

// CalcNodes. visited nodes in travel order, from node first. empty when not found.
func (p *Path) CalcNodes() []int32 {
	if !p.found {
		return []int32{}
	}
	nodes := make([]int32, 0, len(p.edgeKeys)+1)
	nodes = append(nodes, p.from)
	for _, key := range p.edgeKeys {
		state, err := p.g.EdgeIteratorStateForKey(key)
		if err != nil {
			break
		}
		nodes = append(nodes, state.AdjNode())
	}
	return nodes
}

// CalcEdges. edge states in travel order, each oriented in the direction of travel.
func (p *Path) CalcEdges() []graph.EdgeIteratorState {
	states := make([]graph.EdgeIteratorState, 0, len(p.edgeKeys))
	for _, key := range p.edgeKeys {
		state, err := p.g.EdgeIteratorStateForKey(key)
		if err != nil {
			break
		}
		states = append(states, state)
	}
	return states
}

func (p *Path) FromNode() int32 {
	return p.from
}

// EndNode. last node of a found path, the query target otherwise.
func (p *Path) EndNode() int32 {
	return p.end
}

func (p *Path) Distance() float64 {
	return p.distance
}

func (p *Path) Weight() float64 {
	return p.weight
}

func (p *Path) Time() int64 {
	return p.time
}

// CalcPoints. coordinates of CalcNodes.
func (p *Path) CalcPoints(na *graph.NodeAccess) []geo.Coordinate {
	nodes := p.CalcNodes()
	points := make([]geo.Coordinate, 0, len(nodes))
	for _, n := range nodes {
		points = append(points, na.Coordinate(n))
	}
	return points
}

func (p *Path) Polyline(na *graph.NodeAccess) string {
	return geo.EncodePolyline(p.CalcPoints(na))
}

// SimplifiedPoints. CalcPoints with points closer than thresholdMeters to the simplified line removed.
func (p *Path) SimplifiedPoints(na *graph.NodeAccess, thresholdMeters float64) []geo.Coordinate {
	return geo.RamerDouglasPeucker(p.CalcPoints(na), thresholdMeters)
}

func (p *Path) String() string {
	if !p.found {
		return fmt.Sprintf("path %d->%d not found", p.from, p.end)
	}
	return fmt.Sprintf("path %d->%d edges=%d distance=%.3f weight=%.3f time=%d", p.from, p.end, len(p.edgeKeys), p.distance, p.weight, p.time)
}
