package routingalgorithm

import (
	"time"

	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

// Dijkstra . unidirectional Dijkstra. slowest of the three, used as the reference when cross checking.
type Dijkstra struct {
	algoBase
}

func NewDijkstra(g *graph.BaseGraph, w weighting.Weighting) *Dijkstra {
	return &Dijkstra{algoBase: newAlgoBase(g, w)}
}

func (d *Dijkstra) Name() string {
	return DIJKSTRA
}

func (d *Dijkstra) CalcPath(from, to int32) (*Path, error) {
	if err := d.checkQuery(DIJKSTRA, from, to); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := d.search(from, to, ZeroApproximator{})
	if err != nil {
		return nil, err
	}
	d.finish(DIJKSTRA, p, start)
	return p, nil
}
