package routingalgorithm

import (
	"math"
	"time"

	"github.com/lintang-b-s/roadgraph/pkg/datastructure"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/util"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

// https://www.cs.princeton.edu/courses/archive/spr06/cos423/Handouts/GH05.pdf

// AStar . unidirectional A*, frontier priority is weight so far + approximated remaining weight.
type AStar struct {
	algoBase
	approx WeightApproximator
}

func NewAStar(g *graph.BaseGraph, w weighting.Weighting) *AStar {
	return &AStar{
		algoBase: newAlgoBase(g, w),
		approx:   NewBeelineApproximator(g.NodeAccess(), w.MinWeightPerDistance()),
	}
}

// SetApproximation. replace the default beeline heuristic.
func (as *AStar) SetApproximation(approx WeightApproximator) {
	as.approx = approx
}

func (as *AStar) Name() string {
	return ASTAR
}

func (as *AStar) CalcPath(from, to int32) (*Path, error) {
	if err := as.checkQuery(ASTAR, from, to); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := as.search(from, to, as.approx)
	if err != nil {
		return nil, err
	}
	as.finish(ASTAR, p, start)
	return p, nil
}

func (a *algoBase) search(from, to int32, approx WeightApproximator) (*Path, error) {
	if from == to {
		return newFoundPath(a.g, a.w, from, []int32{})
	}
	approx.SetTo(to)

	pq := datastructure.NewFrontier()
	costSoFar := map[int32]float64{from: 0}
	cameFrom := map[int32]cameFromPair{from: {-1, -1}}

	pq.Push(from, approx.Approximate(from))
	explorer := a.g.CreateEdgeExplorer()
	for {
		current, _, ok := pq.Pop()
		if !ok {
			return notFoundPath(a.g, from, to), nil
		}
		a.visitedNodes++

		if current == to {
			edgeKeys := util.ReverseG(extractPath(cameFrom, current))
			return newFoundPath(a.g, a.w, from, edgeKeys)
		}
		if a.budgetExceeded() {
			return notFoundPath(a.g, from, to), nil
		}

		it := explorer.SetBaseNode(current)
		for it.Next() {
			adj := it.AdjNode()
			cost := a.w.CalcEdgeWeight(it.EdgeIteratorState, false)
			if math.IsInf(cost, 1) || math.IsNaN(cost) {
				continue
			}
			// a settled node is reopened when a strictly cheaper cost shows up
			newCost := costSoFar[current] + cost
			if old, ok := costSoFar[adj]; ok && newCost >= old {
				continue
			}
			costSoFar[adj] = newCost
			cameFrom[adj] = cameFromPair{it.EdgeKey(), current}
			pq.Push(adj, newCost+approx.Approximate(adj))
		}
	}
}
