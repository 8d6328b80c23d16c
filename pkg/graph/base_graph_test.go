package graph_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/lintang-b-s/roadgraph/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEncoders struct {
	em        *ev.EncodingManager
	speed     *ev.DecimalEncodedValue
	access    *ev.BooleanEncodedValue
	roadClass *ev.EnumEncodedValue[ev.RoadClass]
}

func newEncoders(t *testing.T) testEncoders {
	t.Helper()
	enc := testEncoders{
		speed:     ev.NewDecimal("car_speed", 5, 5, true),
		access:    ev.NewBoolean("car_access", true),
		roadClass: ev.NewRoadClassEnc(),
	}
	b := ev.NewBuilder()
	require.NoError(t, b.Add(enc.speed))
	require.NoError(t, b.Add(enc.access))
	require.NoError(t, b.Add(enc.roadClass))
	em, err := b.Build()
	require.NoError(t, err)
	enc.em = em
	return enc
}

func newGraph(t *testing.T, enc testEncoders) *graph.BaseGraph {
	t.Helper()
	g, err := graph.NewBuilder(enc.em).SetSegmentSize(128).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func adjNodes(g *graph.BaseGraph, node int32) []int32 {
	adj := make([]int32, 0)
	for s := range g.EdgesOf(node) {
		adj = append(adj, s.AdjNode())
	}
	return adj
}

func TestEdgeKey(t *testing.T) {
	assert.Equal(t, int32(2), graph.CreateEdgeKey(1, false))
	assert.Equal(t, int32(3), graph.CreateEdgeKey(1, true))

	for e := int32(0); e < 1000; e++ {
		fwd, bwd := graph.CreateEdgeKey(e, false), graph.CreateEdgeKey(e, true)
		assert.Equal(t, 2*e, fwd)
		assert.Equal(t, 2*e+1, bwd)
		assert.Equal(t, e, graph.EdgeFromKey(fwd))
		assert.Equal(t, e, graph.EdgeFromKey(bwd))
		assert.False(t, graph.IsReverseKey(fwd))
		assert.True(t, graph.IsReverseKey(bwd))
		assert.Equal(t, bwd, graph.ReverseEdgeKey(fwd))
	}
}

func TestLifecycle(t *testing.T) {
	enc := newEncoders(t)
	g := graph.NewBuilder(enc.em).SetLogger(logging.Discard()).Build()

	_, err := g.Edge(0, 1, 10)
	assert.ErrorIs(t, err, graph.ErrGraphNotCreated)

	require.NoError(t, g.Create(10))
	assert.True(t, errs.Is(g.Create(10), errs.ErrIllegalState))

	_, err = g.Edge(0, 1, 10)
	require.NoError(t, err)

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	assert.True(t, g.IsClosed())

	_, err = g.Edge(1, 2, 10)
	assert.ErrorIs(t, err, graph.ErrGraphClosed)
	assert.True(t, errs.Is(err, errs.ErrIllegalState))
	assert.ErrorIs(t, g.NodeAccess().SetNode(0, 1, 1), graph.ErrGraphClosed)

	_, err = g.EdgeIteratorStateForKey(0)
	assert.ErrorIs(t, err, graph.ErrGraphClosed)
	assert.Empty(t, adjNodes(g, 0))
}

func TestAdjacencyInsertionOrder(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)

	for _, to := range []int32{3, 1, 2} {
		_, err := g.Edge(0, to, 100)
		require.NoError(t, err)
	}
	_, err := g.Edge(1, 0, 50)
	require.NoError(t, err)

	assert.Equal(t, []int32{3, 1, 2, 1}, adjNodes(g, 0))
	assert.Equal(t, []int32{0, 0}, adjNodes(g, 1))
	assert.Equal(t, int32(4), g.Nodes())
	assert.Equal(t, int32(4), g.Edges())

	keys := make([]int32, 0)
	for s := range g.EdgesOf(1) {
		assert.Equal(t, int32(1), s.BaseNode())
		keys = append(keys, s.EdgeKey())
	}
	// edge 1 is 0->1 so it is seen backwards from node 1, edge 3 is 1->0
	assert.Equal(t, []int32{3, 6}, keys)

	// restartable and stoppable
	assert.Equal(t, adjNodes(g, 0), adjNodes(g, 0))
	count := 0
	for range g.EdgesOf(0) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)

	assert.Empty(t, adjNodes(g, 99))
	assert.Empty(t, adjNodes(g, -1))
}

func TestLoopListedOnce(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)

	_, err := g.Edge(0, 0, 10)
	require.NoError(t, err)
	_, err = g.Edge(0, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1}, adjNodes(g, 0))
}

func TestGrowBeyondCapacityHint(t *testing.T) {
	enc := newEncoders(t)
	g := graph.NewBuilder(enc.em).SetSegmentSize(128).SetLogger(logging.Discard()).Build()
	require.NoError(t, g.Create(1))
	defer g.Close()

	const n = 500
	for i := int32(0); i < n; i++ {
		require.NoError(t, g.NodeAccess().SetNode(i, float64(i)/1000, float64(i)/500))
	}
	for i := int32(1); i < n; i++ {
		_, err := g.Edge(i-1, i, float64(i))
		require.NoError(t, err)
	}

	assert.Equal(t, int32(n), g.Nodes())
	assert.Equal(t, int32(n-1), g.Edges())
	for i := int32(1); i < n-1; i++ {
		assert.Equal(t, []int32{i - 1, i + 1}, adjNodes(g, i))
		assert.Equal(t, float64(i)/1000, g.NodeAccess().Lat(i))
	}
	s, err := g.EdgeIteratorStateForKey(graph.CreateEdgeKey(300, false))
	require.NoError(t, err)
	assert.Equal(t, 301.0, s.Distance())
}

func TestEdgeIteratorStateForKey(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	_, err := g.Edge(4, 7, 10)
	require.NoError(t, err)
	_, err = g.Edge(7, 9, 20)
	require.NoError(t, err)

	s, err := g.EdgeIteratorStateForKey(3)
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.Edge())
	assert.Equal(t, int32(9), s.BaseNode())
	assert.Equal(t, int32(7), s.AdjNode())
	assert.True(t, s.IsReverse())
	assert.Equal(t, int32(2), s.ReverseEdgeKey())

	_, err = g.EdgeIteratorStateForKey(4)
	assert.True(t, errs.Is(err, errs.ErrOutOfRange))
	_, err = g.EdgeIteratorStateForKey(-1)
	assert.True(t, errs.Is(err, errs.ErrOutOfRange))

	s, err = g.EdgeIteratorState(0, 4)
	require.NoError(t, err)
	assert.Equal(t, int32(7), s.BaseNode())
	_, err = g.EdgeIteratorState(0, 9)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestCommonNode(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	e0, _ := g.Edge(1, 2, 10)
	e1, _ := g.Edge(1, 3, 10)
	e2, _ := g.Edge(2, 3, 10)
	e3, _ := g.Edge(2, 1, 10)
	e4, _ := g.Edge(5, 6, 10)

	n, err := g.CommonNode(e0.EdgeKey(), e1.EdgeKey())
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)

	for _, pair := range [][2]graph.EdgeIteratorState{{e0, e1}, {e0, e2}, {e1, e2}} {
		ab, err := g.CommonNode(pair[0].EdgeKey(), pair[1].EdgeKey())
		require.NoError(t, err)
		ba, err := g.CommonNode(pair[1].ReverseEdgeKey(), pair[0].EdgeKey())
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
	n, _ = g.CommonNode(e1.EdgeKey(), e2.EdgeKey())
	assert.Equal(t, int32(3), n)

	// parallel edges share both nodes
	_, err = g.CommonNode(e0.EdgeKey(), e3.EdgeKey())
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	_, err = g.CommonNode(e3.EdgeKey(), e0.EdgeKey())
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	// disjoint
	_, err = g.CommonNode(e0.EdgeKey(), e4.EdgeKey())
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	// unknown key
	_, err = g.CommonNode(e0.EdgeKey(), 100)
	assert.True(t, errs.Is(err, errs.ErrOutOfRange))
}

func TestAdjNode(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	e, _ := g.Edge(3, 8, 10)

	for _, key := range []int32{e.EdgeKey(), e.ReverseEdgeKey()} {
		n, err := g.AdjNode(key, 3)
		require.NoError(t, err)
		assert.Equal(t, int32(8), n)
		n, err = g.AdjNode(key, 8)
		require.NoError(t, err)
		assert.Equal(t, int32(3), n)
	}
	_, err := g.AdjNode(e.EdgeKey(), 4)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestDistance(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	e, err := g.Edge(0, 1, 100.1234)
	require.NoError(t, err)
	assert.Equal(t, 100.123, e.Distance())

	assert.True(t, errs.Is(e.SetDistance(-1), errs.ErrInvalidArgument))
	assert.True(t, errs.Is(e.SetDistance(math.NaN()), errs.ErrInvalidArgument))
	assert.Equal(t, 100.123, e.Distance())

	require.NoError(t, e.SetDistance(1e12))
	assert.InDelta(t, graph.MAX_DIST, e.Distance(), 1e-3)

	_, err = g.Edge(2, 3, -5)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestEncodedValuesThroughStates(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	e, err := g.Edge(0, 1, 100)
	require.NoError(t, err)

	require.NoError(t, e.SetDecimalBothDirections(enc.speed, 60, 30))
	e.SetBool(enc.access, true).SetReverseBool(enc.access, false)
	require.NoError(t, graph.SetEnum(e, enc.roadClass, ev.RoadClassPrimary))

	assert.Equal(t, 60.0, e.GetDecimal(enc.speed))
	assert.Equal(t, 30.0, e.GetReverseDecimal(enc.speed))

	rev := e.Detach(true)
	assert.Equal(t, int32(1), rev.BaseNode())
	assert.Equal(t, 30.0, rev.GetDecimal(enc.speed))
	assert.Equal(t, 60.0, rev.GetReverseDecimal(enc.speed))
	assert.False(t, rev.GetBool(enc.access))
	assert.True(t, rev.GetReverseBool(enc.access))
	assert.Equal(t, ev.RoadClassPrimary, graph.GetEnum(rev, enc.roadClass))

	for s := range g.EdgesOf(1) {
		assert.Equal(t, 30.0, s.GetDecimal(enc.speed))
	}
}

func TestNodeAccess(t *testing.T) {
	enc := newEncoders(t)
	g, err := graph.NewBuilder(enc.em).WithElevation(true).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)
	defer g.Close()

	na := g.NodeAccess()
	assert.True(t, na.Is3D())
	require.NoError(t, na.SetNode3D(2, 47.58677, -122.18003, 35))
	assert.Equal(t, int32(3), g.Nodes())
	assert.Equal(t, 47.58677, na.Lat(2))
	assert.Equal(t, -122.18003, na.Lon(2))
	assert.Equal(t, 35.0, na.Ele(2))
	assert.True(t, math.IsNaN(na.Lat(0)))

	assert.True(t, errs.Is(na.SetNode(-1, 0, 0), errs.ErrOutOfRange))

	g2 := newGraph(t, enc)
	require.NoError(t, g2.NodeAccess().SetNode3D(0, 1, 2, 3))
	assert.True(t, math.IsNaN(g2.NodeAccess().Ele(0)))
}

func TestNodeReadsOutsideRange(t *testing.T) {
	enc := newEncoders(t)
	g, err := graph.NewBuilder(enc.em).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)
	na := g.NodeAccess()
	require.NoError(t, na.SetNode(0, 1.5, 2.5))

	c, err := na.GetCoordinate(0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, c.Lat)

	// inside the capacity hint but never allocated
	_, err = na.GetCoordinate(50)
	assert.True(t, errs.Is(err, errs.ErrOutOfRange))
	_, err = na.GetCoordinate(-1)
	assert.True(t, errs.Is(err, errs.ErrOutOfRange))
	assert.Panics(t, func() { na.Lat(50) })
	assert.Panics(t, func() { na.Ele(1) })
	assert.Panics(t, func() { na.Coordinate(1) })

	require.NoError(t, g.Close())
	_, err = na.GetCoordinate(0)
	assert.True(t, errs.Is(err, errs.ErrIllegalState))
	assert.True(t, errors.Is(err, graph.ErrGraphClosed))
	assert.Panics(t, func() { na.Lon(0) })
}

func TestNodesWithoutCoordinates(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	na := g.NodeAccess()

	_, err := g.Edge(0, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(4), na.NodesWithoutCoordinates())

	require.NoError(t, na.SetNode(3, 1, 1))
	require.NoError(t, na.SetNode(0, 1, 1))
	assert.Equal(t, int32(2), na.NodesWithoutCoordinates())

	// overwriting keeps the count
	require.NoError(t, na.SetNode(0, 2, 2))
	assert.Equal(t, int32(2), na.NodesWithoutCoordinates())

	require.NoError(t, na.SetNode(0, math.NaN(), 2))
	assert.Equal(t, int32(3), na.NodesWithoutCoordinates())
}

func TestEdgeExplorerReuse(t *testing.T) {
	enc := newEncoders(t)
	g := newGraph(t, enc)
	g.Edge(0, 1, 1)
	g.Edge(0, 2, 1)
	g.Edge(2, 3, 1)

	explorer := g.CreateEdgeExplorer()
	collect := func(node int32) []int32 {
		res := []int32{}
		it := explorer.SetBaseNode(node)
		for it.Next() {
			res = append(res, it.AdjNode())
		}
		return res
	}
	assert.Equal(t, []int32{1, 2}, collect(0))
	assert.Equal(t, []int32{0, 3}, collect(2))
	assert.Equal(t, []int32{1, 2}, collect(0))
}

func TestIntValuesOnSharedDirectory(t *testing.T) {
	lanes := ev.NewInt("lanes", 3, true)
	b := ev.NewBuilder()
	require.NoError(t, b.Add(lanes))
	em, err := b.Build()
	require.NoError(t, err)

	dir := storage.NewRAMDirectory(logging.Discard())
	g, err := graph.NewBuilder(em).SetDir(dir).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)

	e, err := g.Edge(4, 2, 10)
	require.NoError(t, err)
	require.NoError(t, e.SetInt(lanes, 3))
	require.NoError(t, e.SetReverseInt(lanes, 1))
	assert.True(t, errs.Is(e.SetInt(lanes, 8), errs.ErrInvalidArgument))

	rev := e.Detach(true)
	assert.Equal(t, int32(1), rev.GetInt(lanes))
	assert.Equal(t, int32(3), rev.GetReverseInt(lanes))

	assert.Equal(t, []string{storage.EDGES_FILE_NAME, storage.NODES_FILE_NAME}, dir.Names())
	assert.Positive(t, dir.Capacity())
	require.NoError(t, g.Close())
}
