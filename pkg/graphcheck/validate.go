package graphcheck

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/graph"
)

// ValidateGraph. human readable problems of g: coordinates outside lat [-90,90] / lon [-180,180]
// (bounds are valid), missing coordinates, and adjacency entries pointing outside the node range.
// an empty result means no problems. the graph stays usable either way.
func ValidateGraph(g *graph.BaseGraph) []string {
	problems := make([]string, 0)
	if g.IsClosed() {
		return append(problems, "graph is closed")
	}
	na := g.NodeAccess()
	nodes := g.Nodes()
	explorer := g.CreateEdgeExplorer()

	for n := int32(0); n < nodes; n++ {
		lat, lon := na.Lat(n), na.Lon(n)
		switch {
		case math.IsNaN(lat) || math.IsNaN(lon):
			problems = append(problems, fmt.Sprintf("node %d has no coordinates", n))
		default:
			if lat > 90 || lat < -90 {
				problems = append(problems, fmt.Sprintf("latitude of node %d is out of range: %v", n, lat))
			}
			if lon > 180 || lon < -180 {
				problems = append(problems, fmt.Sprintf("longitude of node %d is out of range: %v", n, lon))
			}
		}

		it := explorer.SetBaseNode(n)
		for it.Next() {
			if adj := it.AdjNode(); adj < 0 || adj >= nodes {
				problems = append(problems, fmt.Sprintf("edge %d of node %d points to node %d, out of range [0, %d)", it.Edge(), n, adj, nodes))
			}
		}
	}
	return problems
}
