package routingalgorithm

import (
	"log/slog"
	"time"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

const (
	DIJKSTRA    = "dijkstra"
	ASTAR       = "astar"
	DIJKSTRA_BI = "dijkstrabi"
)

// RoutingAlgorithm . point to point search on a BaseGraph. instances are single use:
// create one per query, CalcPath a second time returns an illegal-state error.
type RoutingAlgorithm interface {
	// CalcPath. errors only for invalid node ids, a closed graph or a reused instance.
	// an unreachable target is a Path with IsFound() == false.
	CalcPath(from, to int32) (*Path, error)
	VisitedNodes() int
	Name() string
}

type cameFromPair struct {
	EdgeKey int32
	NodeID  int32
}

type algoBase struct {
	g               *graph.BaseGraph
	w               weighting.Weighting
	maxVisitedNodes int
	visitedNodes    int
	used            bool

	metrics *Metrics
	logger  *slog.Logger
}

func newAlgoBase(g *graph.BaseGraph, w weighting.Weighting) algoBase {
	return algoBase{
		g:               g,
		w:               w,
		maxVisitedNodes: -1,
		logger:          logging.OrDefault(nil),
	}
}

// SetMaxVisitedNodes. stop the search after n settled nodes and report not found. n <= 0 means unlimited.
func (a *algoBase) SetMaxVisitedNodes(n int) {
	a.maxVisitedNodes = n
}

func (a *algoBase) SetMetrics(m *Metrics) {
	a.metrics = m
}

func (a *algoBase) SetLogger(logger *slog.Logger) {
	a.logger = logging.OrDefault(logger)
}

func (a *algoBase) VisitedNodes() int {
	return a.visitedNodes
}

func (a *algoBase) budgetExceeded() bool {
	return a.maxVisitedNodes > 0 && a.visitedNodes >= a.maxVisitedNodes
}

// checkQuery. marks the instance used and validates the query nodes.
func (a *algoBase) checkQuery(name string, from, to int32) error {
	if a.used {
		return errs.NewErrorf(errs.ErrIllegalState, "%s: algorithm instance already used, create a new one per query", name)
	}
	a.used = true
	if a.g.IsClosed() {
		return errs.WrapErrorf(graph.ErrGraphClosed, errs.ErrIllegalState, "%s", name)
	}
	n := a.g.Nodes()
	if from < 0 || from >= n {
		return errs.NewErrorf(errs.ErrOutOfRange, "%s: from node %d out of range [0, %d)", name, from, n)
	}
	if to < 0 || to >= n {
		return errs.NewErrorf(errs.ErrOutOfRange, "%s: to node %d out of range [0, %d)", name, to, n)
	}
	return nil
}

func (a *algoBase) finish(name string, p *Path, start time.Time) {
	elapsed := time.Since(start)
	a.metrics.observe(name, a.visitedNodes, elapsed, p.IsFound())
	a.logger.Debug("route calculated",
		"algorithm", name,
		"from", p.FromNode(),
		"to", p.EndNode(),
		"found", p.IsFound(),
		"visited_nodes", a.visitedNodes,
		"took", elapsed)
}

// extractPath. walk cameFrom back from node to the search root. keys come out last edge first.
func extractPath(cameFrom map[int32]cameFromPair, node int32) []int32 {
	keys := make([]int32, 0)
	for {
		prev, ok := cameFrom[node]
		if !ok || prev.NodeID == -1 {
			break
		}
		keys = append(keys, prev.EdgeKey)
		node = prev.NodeID
	}
	return keys
}
