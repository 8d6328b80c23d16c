package osmparser

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
)

func tags(kv ...string) osm.Tags {
	t := make(osm.Tags, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func TestParseMaxSpeed(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"50", 50},
		{"50 km/h", 50},
		{"80kmh", 80},
		{"30 mph", 30 * 1.60934},
		{"10 knots", 18.52},
		{"none", 0},
		{"walk", 0},
		{" 60 ", 60},
	}
	for _, c := range cases {
		got, err := ParseMaxSpeed(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.want, got, 1e-9, c.in)
	}

	_, err := ParseMaxSpeed("fast")
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	_, err = ParseMaxSpeed("-10")
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestAcceptWay(t *testing.T) {
	assert.True(t, AcceptWay(&osm.Way{Tags: tags("highway", "residential")}))
	assert.True(t, AcceptWay(&osm.Way{Tags: tags("highway", "motorway_link")}))
	assert.True(t, AcceptWay(&osm.Way{Tags: tags("route", "road")}))
	assert.False(t, AcceptWay(&osm.Way{Tags: tags("highway", "footway")}))
	assert.False(t, AcceptWay(&osm.Way{Tags: tags("highway", "steps")}))
	assert.False(t, AcceptWay(&osm.Way{Tags: tags("building", "yes")}))
}

func TestDirections(t *testing.T) {
	cases := []struct {
		name          string
		tags          osm.Tags
		fwd, backward bool
	}{
		{"plain", tags("highway", "primary"), true, true},
		{"oneway", tags("highway", "primary", "oneway", "yes"), true, false},
		{"reverse oneway", tags("highway", "primary", "oneway", "-1"), false, true},
		{"roundabout", tags("highway", "primary", "junction", "roundabout"), true, false},
		{"motorway", tags("highway", "motorway"), true, false},
		{"two way motorway", tags("highway", "motorway", "oneway", "no"), true, true},
		{"closed backward", tags("highway", "residential", "motor_vehicle:backward", "no"), true, false},
		{"closed forward", tags("highway", "residential", "vehicle:forward", "private"), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fwd, bwd := directions(c.tags)
			assert.Equal(t, c.fwd, fwd)
			assert.Equal(t, c.backward, bwd)
		})
	}
}

func TestParseWayTags(t *testing.T) {
	attrs, err := ParseWayTags(tags("highway", "secondary_link", "maxspeed", "45"))
	require.NoError(t, err)
	assert.Equal(t, ev.RoadClassSecondary, attrs.RoadClass)
	assert.True(t, attrs.IsLink)
	assert.Equal(t, 45.0, attrs.SpeedKMH)
	assert.True(t, attrs.Forward)
	assert.True(t, attrs.Backward)

	attrs, err = ParseWayTags(tags("highway", "residential"))
	require.NoError(t, err)
	assert.Equal(t, ev.RoadClassResidential, attrs.RoadClass)
	assert.False(t, attrs.IsLink)
	assert.Equal(t, 30.0, attrs.SpeedKMH)

	// a bad maxspeed keeps the road class default
	attrs, err = ParseWayTags(tags("highway", "primary", "maxspeed", "unknown"))
	assert.Error(t, err)
	assert.Equal(t, 65.0, attrs.SpeedKMH)
}

type testEncoders struct {
	em  *ev.EncodingManager
	enc TagEncoders
}

func newEncoders(t *testing.T, accessTwoDirections bool) testEncoders {
	t.Helper()
	b := ev.NewBuilder()
	require.NoError(t, b.Add(ev.NewDecimal(ev.VehicleSpeedKey("car"), 5, 5, true)))
	require.NoError(t, b.Add(ev.NewBoolean(ev.VehicleAccessKey("car"), accessTwoDirections)))
	require.NoError(t, b.Add(ev.NewRoadClassEnc()))
	require.NoError(t, b.Add(ev.NewRoadClassLinkEnc()))
	em, err := b.Build()
	require.NoError(t, err)

	enc, err := NewTagEncoders(em, "car")
	require.NoError(t, err)
	return testEncoders{em: em, enc: enc}
}

func newGraph(t *testing.T, em *ev.EncodingManager) *graph.BaseGraph {
	t.Helper()
	g, err := graph.NewBuilder(em).SetLogger(logging.Discard()).CreateGraph()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestApply(t *testing.T) {
	te := newEncoders(t, true)
	g := newGraph(t, te.em)
	na := g.NodeAccess()
	require.NoError(t, na.SetNode(0, 0, 0))
	require.NoError(t, na.SetNode(1, 0, 0.001))
	state, err := g.Edge(0, 1, 111)
	require.NoError(t, err)

	attrs := WayAttributes{RoadClass: ev.RoadClassPrimary, IsLink: true, SpeedKMH: 500, Forward: true}
	require.NoError(t, attrs.Apply(state, te.enc))

	assert.Equal(t, ev.RoadClassPrimary, graph.GetEnum(state, te.enc.RoadClass))
	assert.True(t, state.GetBool(te.enc.RoadClassLink))
	assert.True(t, state.GetBool(te.enc.Access))
	assert.False(t, state.GetReverseBool(te.enc.Access))
	// clamped to the largest storable speed
	assert.Equal(t, te.enc.Speed.MaxStorableDecimal(), state.GetDecimal(te.enc.Speed))
	assert.Equal(t, 0.0, state.GetReverseDecimal(te.enc.Speed))
}

func TestApplyOneDirectionAccess(t *testing.T) {
	te := newEncoders(t, false)
	g := newGraph(t, te.em)
	state, err := g.Edge(0, 1, 10)
	require.NoError(t, err)

	attrs := WayAttributes{RoadClass: ev.RoadClassResidential, SpeedKMH: 30, Forward: true}
	require.NoError(t, attrs.Apply(state, te.enc))
	assert.True(t, state.GetBool(te.enc.Access))
	assert.Equal(t, 30.0, state.GetDecimal(te.enc.Speed))
}

func TestNewTagEncodersMissingSpeed(t *testing.T) {
	b := ev.NewBuilder()
	require.NoError(t, b.Add(ev.NewRoadClassEnc()))
	em, err := b.Build()
	require.NoError(t, err)

	_, err = NewTagEncoders(em, "car")
	assert.Error(t, err)
}
