package routingalgorithm

import (
	"math"
	"time"

	"github.com/lintang-b-s/roadgraph/pkg/datastructure"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/util"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

// BidirectionalDijkstra . forward search from the source and backward search from the target,
// always settling from the side with the smaller frontier minimum. the search stops once
// minForward + minBackward >= best meeting weight.
type BidirectionalDijkstra struct {
	algoBase
}

func NewBidirectionalDijkstra(g *graph.BaseGraph, w weighting.Weighting) *BidirectionalDijkstra {
	return &BidirectionalDijkstra{algoBase: newAlgoBase(g, w)}
}

func (bd *BidirectionalDijkstra) Name() string {
	return DIJKSTRA_BI
}

// searchSide . state of one direction of the search.
type searchSide struct {
	pq        *datastructure.Frontier
	dist      map[int32]float64
	cameFrom  map[int32]cameFromPair
	visited   map[int32]struct{}
	explorer  *graph.EdgeExplorer
	backwards bool
}

func newSearchSide(g *graph.BaseGraph, root int32, backwards bool) *searchSide {
	s := &searchSide{
		pq:        datastructure.NewFrontier(),
		dist:      map[int32]float64{root: 0},
		cameFrom:  map[int32]cameFromPair{root: {-1, -1}},
		visited:   make(map[int32]struct{}),
		explorer:  g.CreateEdgeExplorer(),
		backwards: backwards,
	}
	s.pq.Push(root, 0)
	return s
}

func (bd *BidirectionalDijkstra) CalcPath(from, to int32) (*Path, error) {
	if err := bd.checkQuery(DIJKSTRA_BI, from, to); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := bd.searchBidirectional(from, to)
	if err != nil {
		return nil, err
	}
	bd.finish(DIJKSTRA_BI, p, start)
	return p, nil
}

func (bd *BidirectionalDijkstra) searchBidirectional(from, to int32) (*Path, error) {
	if from == to {
		return newFoundPath(bd.g, bd.w, from, []int32{})
	}

	fwd := newSearchSide(bd.g, from, false)
	bwd := newSearchSide(bd.g, to, true)

	estimate := math.Inf(1)
	bestCommonVertex := int32(-1)

	for {
		minF, minB := fwd.pq.PeekPriority(), bwd.pq.PeekPriority()
		// an exhausted side has minimum +Inf, which also ends the search
		if minF+minB >= estimate || (math.IsInf(minF, 1) && math.IsInf(minB, 1)) {
			break
		}
		if bd.budgetExceeded() {
			return notFoundPath(bd.g, from, to), nil
		}

		side, other := fwd, bwd
		if minB < minF {
			side, other = bwd, fwd
		}
		if meet, weight, ok := bd.settle(side, other, estimate); ok {
			estimate = weight
			bestCommonVertex = meet
		}
	}

	if bestCommonVertex == -1 {
		return notFoundPath(bd.g, from, to), nil
	}

	edgeKeys := util.ReverseG(extractPath(fwd.cameFrom, bestCommonVertex))
	// backward predecessors already point towards the target
	edgeKeys = append(edgeKeys, extractPath(bwd.cameFrom, bestCommonVertex)...)
	return newFoundPath(bd.g, bd.w, from, edgeKeys)
}

// settle. pop the next node of side and relax its edges. returns the meeting node if a path cheaper than estimate was found.
func (bd *BidirectionalDijkstra) settle(side, other *searchSide, estimate float64) (int32, float64, bool) {
	node, _, ok := side.pq.Pop()
	if !ok {
		return -1, 0, false
	}
	side.visited[node] = struct{}{}
	bd.visitedNodes++

	bestMeet, improved := int32(-1), false
	it := side.explorer.SetBaseNode(node)
	for it.Next() {
		adj := it.AdjNode()
		if _, ok := side.visited[adj]; ok {
			continue
		}
		// backward search walks adj -> node in travel direction
		cost := bd.w.CalcEdgeWeight(it.EdgeIteratorState, side.backwards)
		if math.IsInf(cost, 1) || math.IsNaN(cost) {
			continue
		}
		newCost := side.dist[node] + cost
		if old, ok := side.dist[adj]; ok && newCost >= old {
			continue
		}
		side.dist[adj] = newCost
		key := it.EdgeKey()
		if side.backwards {
			key = it.ReverseEdgeKey()
		}
		side.cameFrom[adj] = cameFromPair{key, node}
		side.pq.Push(adj, newCost)

		if otherCost, ok := other.dist[adj]; ok && newCost+otherCost < estimate {
			estimate = newCost + otherCost
			bestMeet, improved = adj, true
		}
	}
	return bestMeet, estimate, improved
}
