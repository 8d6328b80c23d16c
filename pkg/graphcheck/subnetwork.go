package graphcheck

import (
	"math"
	"slices"

	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/util"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

// Subnetworks. strongly connected components of g, an edge direction counts only if w can traverse it.
// components are sorted by size (largest first), nodes within a component ascending.
// kosaraju with explicit stacks, road graphs are too deep for recursion.
func Subnetworks(g *graph.BaseGraph, w weighting.Weighting) [][]int32 {
	n := g.Nodes()
	order := make([]int32, 0, n)
	visited := make([]bool, n)

	for i := int32(0); i < n; i++ {
		if !visited[i] {
			dfs(g, w, i, &order, visited, false)
		}
	}

	order = util.ReverseG(order)

	// reset visited
	visited = make([]bool, n)

	components := make([][]int32, 0)
	for _, v := range order {
		if !visited[v] {
			component := make([]int32, 0)
			dfs(g, w, v, &component, visited, true)
			slices.Sort(component)
			components = append(components, component)
		}
	}

	slices.SortStableFunc(components, func(a, b []int32) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return int(a[0] - b[0])
	})
	return components
}

type dfsFrame struct {
	node      int32
	neighbors []int32
	next      int
}

// dfs. appends the nodes reachable from root to output in post order.
// reversed walks edges backwards (nodes that can reach root).
func dfs(g *graph.BaseGraph, w weighting.Weighting, root int32, output *[]int32, visited []bool, reversed bool) {
	visited[root] = true
	stack := []dfsFrame{{node: root, neighbors: neighbors(g, w, root, reversed)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.neighbors) {
			adj := top.neighbors[top.next]
			top.next++
			if !visited[adj] {
				visited[adj] = true
				stack = append(stack, dfsFrame{node: adj, neighbors: neighbors(g, w, adj, reversed)})
			}
			continue
		}
		*output = append(*output, top.node)
		stack = stack[:len(stack)-1]
	}
}

func neighbors(g *graph.BaseGraph, w weighting.Weighting, node int32, reversed bool) []int32 {
	adj := make([]int32, 0, 4)
	for state := range g.EdgesOf(node) {
		if !math.IsInf(w.CalcEdgeWeight(state, reversed), 1) {
			adj = append(adj, state.AdjNode())
		}
	}
	return adj
}
