package graphcheck

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/engine/routingalgorithm"
)

const (
	WEIGHT_TOLERANCE   = 1e-2
	DISTANCE_TOLERANCE = 1e-1 // meter
	TIME_TOLERANCE     = 50   // millisecond
)

// ComparePaths. violations of candidate against the reference path for the same query. aggregates must agree
// within tolerance and the candidate must be a contiguous walk from source to target. a different edge
// sequence with equal aggregates is an accepted tie. seed is only echoed so a failing random query can be replayed.
func ComparePaths(ref, candidate *routingalgorithm.Path, source, target int32, seed int64) []string {
	violations := make([]string, 0)
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf("%d->%d (seed %d): ", source, target, seed)+fmt.Sprintf(format, args...))
	}

	if ref.IsFound() != candidate.IsFound() {
		report("found mismatch, reference %v, candidate %v", ref.IsFound(), candidate.IsFound())
		return violations
	}
	if !ref.IsFound() {
		return violations
	}

	if diff := math.Abs(ref.Weight() - candidate.Weight()); diff > WEIGHT_TOLERANCE || math.IsNaN(diff) {
		report("wrong weight, reference %.4f, candidate %.4f", ref.Weight(), candidate.Weight())
	}
	if diff := math.Abs(ref.Distance() - candidate.Distance()); diff > DISTANCE_TOLERANCE || math.IsNaN(diff) {
		report("wrong distance, reference %.3f, candidate %.3f", ref.Distance(), candidate.Distance())
	}
	if diff := ref.Time() - candidate.Time(); diff > TIME_TOLERANCE || diff < -TIME_TOLERANCE {
		report("wrong time, reference %d, candidate %d", ref.Time(), candidate.Time())
	}

	nodes := candidate.CalcNodes()
	if len(nodes) == 0 || nodes[0] != source {
		report("candidate does not start at source, nodes %v", nodes)
	}
	if len(nodes) == 0 || nodes[len(nodes)-1] != target {
		report("candidate does not end at target, nodes %v", nodes)
	}

	edges := candidate.CalcEdges()
	if len(edges) != candidate.EdgeCount() {
		report("candidate has %d unresolvable edge keys", candidate.EdgeCount()-len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i-1].AdjNode() != edges[i].BaseNode() {
			report("candidate is not contiguous at edge %d: %d then %d", i, edges[i-1].AdjNode(), edges[i].BaseNode())
		}
	}
	if len(edges) > 0 && edges[0].BaseNode() != source {
		report("first edge of candidate starts at %d", edges[0].BaseNode())
	}
	return violations
}
