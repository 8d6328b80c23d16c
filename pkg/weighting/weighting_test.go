package weighting_test

import (
	"math"
	"testing"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*graph.BaseGraph, *ev.DecimalEncodedValue, *ev.BooleanEncodedValue) {
	t.Helper()
	speed := ev.NewDecimal(ev.VehicleSpeedKey("car"), 5, 5, true)
	access := ev.NewBoolean(ev.VehicleAccessKey("car"), true)
	b := ev.NewBuilder()
	require.NoError(t, b.Add(speed))
	require.NoError(t, b.Add(access))
	em, err := b.Build()
	require.NoError(t, err)
	g, err := graph.NewBuilder(em).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g, speed, access
}

func TestSpeedWeighting(t *testing.T) {
	g, speed, _ := setup(t)
	e, err := g.Edge(0, 1, 1000)
	require.NoError(t, err)
	require.NoError(t, e.SetDecimalBothDirections(speed, 90, 0))

	w := weighting.NewSpeedWeighting(speed)
	// 1000 m at 25 m/s
	assert.InDelta(t, 40.0, w.CalcEdgeWeight(e, false), 1e-9)
	assert.Equal(t, int64(40000), w.CalcEdgeMillis(e, false))

	// zero speed is impassable, not a division fault
	assert.True(t, math.IsInf(w.CalcEdgeWeight(e, true), 1))

	// the flipped state sees the speeds swapped
	rev := e.Detach(true)
	assert.True(t, math.IsInf(w.CalcEdgeWeight(rev, false), 1))
	assert.InDelta(t, 40.0, w.CalcEdgeWeight(rev, true), 1e-9)

	assert.InDelta(t, 1/(155/3.6), w.MinWeightPerDistance(), 1e-12)
	assert.Equal(t, weighting.SPEED, w.Name())

	bounded := weighting.NewSpeedWeighting(speed, weighting.WithMaxSpeed(90))
	assert.InDelta(t, 0.04, bounded.MinWeightPerDistance(), 1e-12)
}

func TestSpeedWeightingAccess(t *testing.T) {
	g, speed, access := setup(t)
	e, err := g.Edge(0, 1, 500)
	require.NoError(t, err)
	require.NoError(t, e.SetDecimalBothDirections(speed, 50, 50))
	e.SetBool(access, true).SetReverseBool(access, false)

	w := weighting.NewSpeedWeighting(speed, weighting.WithAccess(access))
	assert.InDelta(t, 36.0, w.CalcEdgeWeight(e, false), 1e-9)
	assert.True(t, math.IsInf(w.CalcEdgeWeight(e, true), 1))
	assert.Equal(t, int64(math.MaxInt64), w.CalcEdgeMillis(e, true))
}

func TestShortestWeighting(t *testing.T) {
	g, speed, _ := setup(t)
	e, err := g.Edge(0, 1, 250)
	require.NoError(t, err)
	require.NoError(t, e.SetDecimalBothDirections(speed, 90, 0))

	w := weighting.NewShortestWeighting(speed)
	assert.Equal(t, 250.0, w.CalcEdgeWeight(e, false))
	assert.Equal(t, int64(10000), w.CalcEdgeMillis(e, false))
	assert.True(t, math.IsInf(w.CalcEdgeWeight(e, true), 1))
	assert.Equal(t, 1.0, w.MinWeightPerDistance())
}

func TestCreate(t *testing.T) {
	g, _, _ := setup(t)
	em := g.EncodingManager()

	w, err := weighting.Create("fastest", "car", em)
	require.NoError(t, err)
	assert.Equal(t, weighting.SPEED, w.Name())

	w, err = weighting.Create("shortest", "car", em)
	require.NoError(t, err)
	assert.Equal(t, weighting.SHORTEST, w.Name())

	_, err = weighting.Create("curvature", "car", em)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))

	_, err = weighting.Create("fastest", "bike", em)
	assert.ErrorIs(t, err, ev.ErrUnknownEncoded)
}
