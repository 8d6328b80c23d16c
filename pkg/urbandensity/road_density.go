package urbandensity

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
)

// RoadFactor . contribution of one road to the density around an edge.
type RoadFactor func(edge graph.EdgeIteratorState) float64

// RoadDensityCalculator . bounded BFS around an edge. holds its own buffers, one per goroutine.
type RoadDensityCalculator struct {
	g        *graph.BaseGraph
	explorer *graph.EdgeExplorer
	visited  map[int32]struct{}
	queue    []int32
}

func NewRoadDensityCalculator(g *graph.BaseGraph) *RoadDensityCalculator {
	return &RoadDensityCalculator{
		g:        g,
		explorer: g.CreateEdgeExplorer(),
		visited:  make(map[int32]struct{}),
		queue:    make([]int32, 0, 64),
	}
}

// CalcRoadDensity. sum of roadFactor over the roads found within radius meters of the edge's midpoint, divided by radius².
// the BFS keeps going for at least radius/2 polls even outside the radius, otherwise long edges (tunnels, motorway
// sections) whose endpoints lie outside the radius would never see their neighbours.
func (c *RoadDensityCalculator) CalcRoadDensity(edge graph.EdgeIteratorState, radius float64, roadFactor RoadFactor) float64 {
	clear(c.visited)
	c.queue = c.queue[:0]

	na := c.g.NodeAccess()
	base, adj := edge.BaseNode(), edge.AdjNode()
	center := geo.Midpoint(na.Coordinate(base), na.Coordinate(adj))

	c.queue = append(c.queue, base, adj)
	c.visited[base] = struct{}{}
	c.visited[adj] = struct{}{}

	minPolls := int(radius / 2)
	polls := 0
	total := 0.0
	for head := 0; head < len(c.queue); head++ {
		node := c.queue[head]
		polls++
		coord := na.Coordinate(node)
		distance := geo.DistanceMeters(center.Lat, center.Lon, coord.Lat, coord.Lon)
		inside := distance <= radius
		if polls > minPolls && !inside {
			continue
		}

		it := c.explorer.SetBaseNode(node)
		for it.Next() {
			next := it.AdjNode()
			if _, ok := c.visited[next]; ok {
				continue
			}
			c.visited[next] = struct{}{}
			if inside {
				total += roadFactor(it.EdgeIteratorState)
			}
			c.queue = append(c.queue, next)
		}
	}
	return total / radius / radius
}

// calcRoadDensities. run fn for every edge, spread over threads workers each with its own calculator.
// fn must only write state owned by its edge.
func calcRoadDensities(ctx context.Context, g *graph.BaseGraph, threads int, fn func(c *RoadDensityCalculator, edge graph.EdgeIteratorState) error) error {
	if threads < 1 {
		threads = 1
	}
	edges := g.Edges()
	chunk := (edges + int32(threads) - 1) / int32(threads)

	eg, egCtx := errgroup.WithContext(ctx)
	for start := int32(0); start < edges; start += chunk {
		end := min(start+chunk, edges)
		eg.Go(func() error {
			c := NewRoadDensityCalculator(g)
			for e := start; e < end; e++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				state, err := g.EdgeIteratorState(e, -1)
				if err != nil {
					return err
				}
				if err := fn(c, state); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
