package graph

// EdgeExplorer . reusable cursor factory over adjacency lists. one explorer per goroutine.
type EdgeExplorer struct {
	g  *BaseGraph
	it EdgeIterator
}

func (g *BaseGraph) CreateEdgeExplorer() *EdgeExplorer {
	ex := &EdgeExplorer{g: g}
	ex.it.EdgeIteratorState.g = g
	return ex
}

// SetBaseNode. reset the explorer's iterator to the edges of node. the iterator is reused by the next call.
func (ex *EdgeExplorer) SetBaseNode(node int32) *EdgeIterator {
	it := &ex.it
	it.baseNode = node
	it.next = NO_EDGE
	if ex.g.isValidNode(node) {
		it.next = ex.g.firstEdge(node)
	}
	return it
}

// EdgeIterator . cursor over one node's edges, oriented away from that node.
//
//	it := explorer.SetBaseNode(n)
//	for it.Next() {
//		_ = it.AdjNode()
//	}
type EdgeIterator struct {
	EdgeIteratorState
	next int32
}

func (it *EdgeIterator) Next() bool {
	if it.next == NO_EDGE {
		return false
	}
	g := it.g
	edge := it.next
	base := it.baseNode

	a, b := g.nodeA(edge), g.nodeB(edge)
	it.edge = edge
	if a == base {
		it.adjNode = b
		it.reverse = false
	} else {
		it.adjNode = a
		it.reverse = true
	}
	it.next = g.nextEdge(edge, base)
	return true
}
